package engine

import (
	"reflect"
	"testing"

	"github.com/ericogr/chimera-arena/internal/game"
)

func TestPlanAI_PrefersCheapestLethal(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("e0", 5, 10, 0, 5), mkCombatant("e1", 100, 10, 0, 5)},
		[]game.Combatant{mkCombatant("ai", 100, 50, 0, 5)},
	)
	b.Sides[1].AI = true
	b.Sides[1].Team[0].Deck = []string{"smash", "strike", "guard"}

	got := PlanAI(b, 1, testCards)
	if len(got) != 1 || got[0].CardID != "strike" || got[0].TargetIndex == nil || *got[0].TargetIndex != 0 {
		t.Fatalf("expected strike on the weak target, got %+v", got)
	}
}

func TestPlanAI_HighestValueWhenNoLethal(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("e0", 1000, 10, 0, 5)},
		[]game.Combatant{mkCombatant("ai", 100, 50, 0, 5)},
	)
	b.Sides[1].Team[0].Deck = []string{"strike", "smash", "guard"}

	got := PlanAI(b, 1, testCards)
	if len(got) != 1 || got[0].CardID != "smash" {
		t.Fatalf("expected smash, got %+v", got)
	}
}

func TestPlanAI_RespectsEnergyAndStun(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("e0", 1000, 10, 0, 5)},
		[]game.Combatant{mkCombatant("ai", 100, 50, 0, 5), mkCombatant("ai2", 100, 50, 0, 5)},
	)
	b.Sides[1].Team[0].Energy = 1
	b.Sides[1].Team[0].Deck = []string{"strike", "smash"}
	b.Sides[1].Team[1].AddStatus(game.StatusEffect{Kind: game.StatusStun, Remaining: 1})

	got := PlanAI(b, 1, testCards)
	if len(got) != 1 || got[0].CardID != "strike" || got[0].CombatantIndex != 0 {
		t.Fatalf("expected a single affordable strike, got %+v", got)
	}
	if err := ValidateSubmission(b, 1, got, testCards); err != nil {
		t.Fatalf("AI plan failed validation: %v", err)
	}
}

func TestPlanAI_Deterministic(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("e0", 80, 40, 10, 5), mkCombatant("e1", 80, 40, 10, 5)},
		[]game.Combatant{mkCombatant("ai", 100, 30, 10, 5), mkCombatant("ai2", 90, 35, 5, 6)},
	)
	first := PlanAI(b, 1, testCards)
	second := PlanAI(b.Clone(), 1, testCards)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ: %+v vs %+v", first, second)
	}
	if err := ValidateSubmission(b, 1, first, testCards); err != nil {
		t.Fatalf("AI plan failed validation: %v", err)
	}
}

func TestEvaluate_StunOnlyCountsRoundsItDenies(t *testing.T) {
	daze := testCards["daze"]
	longDaze := daze
	longDaze.Effects = []game.CardEffect{{Kind: game.EffectStun, Target: game.TargetSingleEnemy, Duration: 2}}

	cases := []struct {
		name        string
		casterSpeed int
		targetSpeed int
		round       int
		card        game.Card
		want        float64
	}{
		{"slower caster, one round", 5, 10, 1, daze, 0},
		{"faster caster, one round", 10, 5, 1, daze, aiStunValue},
		{"slower caster, two rounds", 5, 10, 1, longDaze, aiStunValue},
		{"tie without priority", 5, 5, 1, daze, 0},
		{"tie with priority", 5, 5, 2, daze, aiStunValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mkBattle(
				[]game.Combatant{mkCombatant("e0", 100, 10, 0, tc.targetSpeed)},
				[]game.Combatant{mkCombatant("ai", 100, 10, 0, tc.casterSpeed)},
			)
			b.Round = tc.round
			card := tc.card
			got := evaluate(b, 1, 0, &card, idx(0))
			if got.score != tc.want {
				t.Fatalf("expected score %v, got %v", tc.want, got.score)
			}
		})
	}
}

func TestPlanAI_SlowCasterSkipsUselessStun(t *testing.T) {
	b := mkBattle(
		[]game.Combatant{mkCombatant("e0", 1000, 10, 0, 10)},
		[]game.Combatant{mkCombatant("ai", 100, 10, 0, 1)},
	)
	b.Sides[1].Team[0].Deck = []string{"daze", "strike"}

	got := PlanAI(b, 1, testCards)
	if len(got) != 1 || got[0].CardID != "strike" {
		t.Fatalf("expected strike over a stun that lands too late, got %+v", got)
	}
}
