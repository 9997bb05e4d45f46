package engine

import "github.com/ericogr/chimera-arena/internal/game"

var testCards = CardMap{
	"strike": {ID: "strike", Name: "Strike", Element: game.ElementNeutral, EnergyCost: 1, AttackModifier: 1.0,
		Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetSingleEnemy}}},
	"smash": {ID: "smash", Name: "Smash", Element: game.ElementNeutral, EnergyCost: 3, AttackModifier: 2.0,
		Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetSingleEnemy}}},
	"quake": {ID: "quake", Name: "Quake", Element: game.ElementEarth, EnergyCost: 3, AttackModifier: 0.5,
		Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetAllEnemies}}},
	"daze": {ID: "daze", Name: "Daze", Element: game.ElementNeutral, EnergyCost: 2,
		Effects: []game.CardEffect{{Kind: game.EffectStun, Target: game.TargetSingleEnemy, Duration: 1}}},
	"guard": {ID: "guard", Name: "Guard", Element: game.ElementNeutral, EnergyCost: 1, DefenseModifier: 0.5,
		Effects: []game.CardEffect{{Kind: game.EffectShield, Magnitude: 10, Target: game.TargetSelf}}},
	"frenzy": {ID: "frenzy", Name: "Frenzy", Element: game.ElementNeutral, EnergyCost: 2, AttackModifier: 1.0,
		Effects: []game.CardEffect{{Kind: game.EffectDoubleDamage, Target: game.TargetSelf}, {Kind: game.EffectDamage, Target: game.TargetSingleEnemy}}},
	"drain": {ID: "drain", Name: "Drain", Element: game.ElementNeutral, EnergyCost: 2, AttackModifier: 1.0,
		Effects: []game.CardEffect{{Kind: game.EffectDamageWithHeal, Magnitude: 50, Target: game.TargetSingleEnemy}}},
	"mend": {ID: "mend", Name: "Mend", Element: game.ElementLight, EnergyCost: 1,
		Effects: []game.CardEffect{{Kind: game.EffectHeal, Magnitude: 30, Target: game.TargetSingleAlly}}},
	"haste": {ID: "haste", Name: "Haste", Element: game.ElementAir, EnergyCost: 1,
		Effects: []game.CardEffect{{Kind: game.EffectBuff, Magnitude: 50, Target: game.TargetSelf, Stat: game.StatSpeed, Duration: 2}}},
	"sap": {ID: "sap", Name: "Sap", Element: game.ElementDark, EnergyCost: 1,
		Effects: []game.CardEffect{{Kind: game.EffectDebuff, Magnitude: 50, Target: game.TargetSingleEnemy, Stat: game.StatEnergy, Duration: 2}}},
	"slow": {ID: "slow", Name: "Slow", Element: game.ElementWater, EnergyCost: 1,
		Effects: []game.CardEffect{{Kind: game.EffectDebuff, Magnitude: 90, Target: game.TargetSingleEnemy, Stat: game.StatSpeed, Duration: 2}}},
	"broken": {ID: "broken", Name: "Broken", Element: game.ElementNeutral, EnergyCost: 1, AttackModifier: 1.0,
		Effects: []game.CardEffect{{Kind: game.EffectDamage, Target: game.TargetSingleEnemy}, {Kind: game.EffectBuff, Magnitude: 10, Target: game.TargetSelf, Stat: "luck"}}},
}

// deck of every well-formed card
var allCards = []string{"strike", "smash", "quake", "daze", "guard", "frenzy", "drain", "mend", "haste", "sap", "slow"}

func mkCombatant(id string, hp, atk, def, speed int) game.Combatant {
	return game.Combatant{
		ID:          id,
		Name:        id,
		Elements:    []game.Element{game.ElementNeutral},
		HP:          hp,
		MaxHP:       hp,
		Speed:       speed,
		BaseAttack:  atk,
		BaseDefense: def,
		Energy:      4,
		MaxEnergy:   4,
		Deck:        append([]string(nil), allCards...),
	}
}

func mkBattle(team1, team2 []game.Combatant) *game.Battle {
	return &game.Battle{
		ID:     "b1",
		Mode:   game.ModePvP,
		Round:  1,
		Status: game.StatusActive,
		Phase:  game.PhaseAwaitingMoves,
		Sides: [2]game.Side{
			{Address: "0xaaa", Team: team1},
			{Address: "0xbbb", Team: team2},
		},
	}
}

func idx(i int) *int { return &i }

func act(combatant int, card string, target *int) game.BattleAction {
	return game.BattleAction{CombatantIndex: combatant, CardID: card, TargetIndex: target}
}
