package engine

import (
	"errors"
	"testing"

	"github.com/ericogr/chimera-arena/internal/game"
)

func TestValidateSubmission(t *testing.T) {
	newB := func() *game.Battle {
		b := mkBattle(
			[]game.Combatant{mkCombatant("a", 100, 50, 0, 10), mkCombatant("c", 100, 50, 0, 10)},
			[]game.Combatant{mkCombatant("b", 100, 50, 0, 5), mkCombatant("d", 100, 50, 0, 5)},
		)
		b.Sides[1].Team[1].HP = 0
		return b
	}
	cases := []struct {
		name    string
		prep    func(b *game.Battle)
		actions []game.BattleAction
		wantErr bool
	}{
		{name: "empty pass", actions: nil},
		{name: "valid", actions: []game.BattleAction{act(0, "strike", idx(0)), act(1, "guard", nil)}},
		{name: "heal ally", actions: []game.BattleAction{act(0, "mend", idx(1))}},
		{name: "too many", actions: []game.BattleAction{act(0, "guard", nil), act(1, "guard", nil), act(0, "guard", nil)}, wantErr: true},
		{name: "stunned lowers limit", prep: func(b *game.Battle) {
			b.Sides[0].Team[1].AddStatus(game.StatusEffect{Kind: game.StatusStun, Remaining: 1})
		}, actions: []game.BattleAction{act(0, "guard", nil), act(1, "guard", nil)}, wantErr: true},
		{name: "duplicate combatant", actions: []game.BattleAction{act(0, "guard", nil), act(0, "strike", idx(0))}, wantErr: true},
		{name: "index out of range", actions: []game.BattleAction{act(5, "guard", nil)}, wantErr: true},
		{name: "dead actor", prep: func(b *game.Battle) { b.Sides[0].Team[1].HP = 0 }, actions: []game.BattleAction{act(1, "guard", nil)}, wantErr: true},
		{name: "unknown card", actions: []game.BattleAction{act(0, "nope", nil)}, wantErr: true},
		{name: "card not in deck", prep: func(b *game.Battle) { b.Sides[0].Team[0].Deck = []string{"guard"} }, actions: []game.BattleAction{act(0, "strike", idx(0))}, wantErr: true},
		{name: "insufficient energy", prep: func(b *game.Battle) { b.Sides[0].Team[0].Energy = 2 }, actions: []game.BattleAction{act(0, "smash", idx(0))}, wantErr: true},
		{name: "missing target", actions: []game.BattleAction{act(0, "strike", nil)}, wantErr: true},
		{name: "target out of range", actions: []game.BattleAction{act(0, "strike", idx(2))}, wantErr: true},
		{name: "dead target", actions: []game.BattleAction{act(0, "strike", idx(1))}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newB()
			if tc.prep != nil {
				tc.prep(b)
			}
			before := b.Clone()
			err := ValidateSubmission(b, 0, tc.actions, testCards)
			if tc.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Sides[0].Team[0].Energy != before.Sides[0].Team[0].Energy {
				t.Fatalf("validation must not mutate the battle")
			}
		})
	}
}
