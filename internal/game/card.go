package game

// Element is an elemental typing shared by combatants and cards.
type Element string

const (
	ElementNeutral Element = "neutral"
	ElementFire    Element = "fire"
	ElementWater   Element = "water"
	ElementEarth   Element = "earth"
	ElementAir     Element = "air"
	ElementLight   Element = "light"
	ElementDark    Element = "dark"
)

// Valid reports whether e is one of the known elements.
func (e Element) Valid() bool {
	switch e {
	case ElementNeutral, ElementFire, ElementWater, ElementEarth, ElementAir, ElementLight, ElementDark:
		return true
	}
	return false
}

// EffectKind identifies what a single card effect does.
type EffectKind string

const (
	EffectDamage         EffectKind = "damage"
	EffectHeal           EffectKind = "heal"
	EffectDamageWithHeal EffectKind = "damage_with_heal"
	EffectShield         EffectKind = "shield"
	EffectBuff           EffectKind = "buff"
	EffectDebuff         EffectKind = "debuff"
	EffectStun           EffectKind = "stun"
	EffectDoubleDamage   EffectKind = "double_damage"
)

func (k EffectKind) Valid() bool {
	switch k {
	case EffectDamage, EffectHeal, EffectDamageWithHeal, EffectShield, EffectBuff, EffectDebuff, EffectStun, EffectDoubleDamage:
		return true
	}
	return false
}

// TargetType selects which combatants an effect lands on, relative to the caster.
type TargetType string

const (
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetSelf        TargetType = "self"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetSingleEnemy, TargetAllEnemies, TargetSelf, TargetSingleAlly, TargetAllAllies:
		return true
	}
	return false
}

// NeedsIndex reports whether the selector requires an explicit target index.
func (t TargetType) NeedsIndex() bool {
	return t == TargetSingleEnemy || t == TargetSingleAlly
}

// Enemy reports whether the selector points at the opposing side.
func (t TargetType) Enemy() bool {
	return t == TargetSingleEnemy || t == TargetAllEnemies
}

// Stat is the stat a buff or debuff modifies.
type Stat string

const (
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
	StatSpeed   Stat = "speed"
	StatEnergy  Stat = "energy"
)

// CardEffect is one entry of a card's ordered effect list.
type CardEffect struct {
	Kind      EffectKind `json:"kind" yaml:"kind"`
	Magnitude int        `json:"magnitude" yaml:"magnitude"`
	Target    TargetType `json:"target" yaml:"target"`
	// Duration in rounds for timed effects. Zero means one round.
	Duration int  `json:"duration,omitempty" yaml:"duration"`
	Stat     Stat `json:"stat,omitempty" yaml:"stat"`
	// ScalesWithAttack turns a HEAL magnitude into a percentage of the
	// caster's effective attack.
	ScalesWithAttack bool `json:"scales_with_attack,omitempty" yaml:"scales_with_attack"`
}

// Rounds returns the effective duration of a timed effect.
func (e CardEffect) Rounds() int {
	if e.Duration <= 0 {
		return 1
	}
	return e.Duration
}

// Card is immutable reference data. Battle code reads cards from the
// catalog and never mutates them.
type Card struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Description     string       `json:"description,omitempty" yaml:"description"`
	Element         Element      `json:"element" yaml:"element"`
	EnergyCost      int          `json:"energy_cost" yaml:"energy_cost"`
	AttackModifier  float64      `json:"attack_modifier" yaml:"attack_modifier"`
	DefenseModifier float64      `json:"defense_modifier" yaml:"defense_modifier"`
	Effects         []CardEffect `json:"effects" yaml:"effects"`
}

// PrimaryTarget returns the selector of the first effect that needs an
// explicit index, or the first effect's selector when none does.
func (c *Card) PrimaryTarget() TargetType {
	if c == nil || len(c.Effects) == 0 {
		return TargetSelf
	}
	for _, e := range c.Effects {
		if e.Target.NeedsIndex() {
			return e.Target
		}
	}
	return c.Effects[0].Target
}

// NeedsTargetIndex reports whether a BattleAction playing this card must
// carry a target index.
func (c *Card) NeedsTargetIndex() bool {
	if c == nil {
		return false
	}
	for _, e := range c.Effects {
		if e.Target.NeedsIndex() {
			return true
		}
	}
	return false
}
