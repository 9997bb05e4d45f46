package engine

import (
	"fmt"

	"github.com/ericogr/chimera-arena/internal/game"
)

// ValidationError rejects a submission. The battle is left untouched.
type ValidationError struct {
	Action int // index of the offending action, -1 for the whole submission
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Action < 0 {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid action %d: %s", e.Action, e.Reason)
}

func invalid(action int, format string, args ...any) *ValidationError {
	return &ValidationError{Action: action, Reason: fmt.Sprintf(format, args...)}
}

// ValidateSubmission checks a side's move list against the current state.
// An empty list is a valid pass. Actions by stunned combatants are accepted
// and skipped at resolution; they still count against the ready limit.
func ValidateSubmission(b *game.Battle, side int, actions []game.BattleAction, cards CardLookup) error {
	if side < 0 || side > 1 {
		return invalid(-1, "unknown side")
	}
	s := &b.Sides[side]
	if limit := s.ReadyCount(); len(actions) > limit {
		return invalid(-1, "%d actions submitted but only %d combatants can act", len(actions), limit)
	}
	seen := make(map[int]bool, len(actions))
	for i, a := range actions {
		if a.CombatantIndex < 0 || a.CombatantIndex >= len(s.Team) {
			return invalid(i, "combatant index %d out of range", a.CombatantIndex)
		}
		if seen[a.CombatantIndex] {
			return invalid(i, "combatant %d already has an action this round", a.CombatantIndex)
		}
		seen[a.CombatantIndex] = true
		actor := &s.Team[a.CombatantIndex]
		if !actor.Alive() {
			return invalid(i, "combatant %d is defeated", a.CombatantIndex)
		}
		card, ok := cards.Card(a.CardID)
		if !ok {
			return invalid(i, "unknown card %q", a.CardID)
		}
		if !actor.HasCard(a.CardID) {
			return invalid(i, "card %q is not in %s's deck", a.CardID, displayName(actor))
		}
		if card.EnergyCost > actor.Energy {
			return invalid(i, "card %q costs %d energy, %s has %d", a.CardID, card.EnergyCost, displayName(actor), actor.Energy)
		}
		if card.NeedsTargetIndex() {
			if a.TargetIndex == nil {
				return invalid(i, "card %q requires a target index", a.CardID)
			}
			tside := side
			if card.PrimaryTarget().Enemy() {
				tside = opponent(side)
			}
			team := b.Sides[tside].Team
			ti := *a.TargetIndex
			if ti < 0 || ti >= len(team) {
				return invalid(i, "target index %d out of range", ti)
			}
			if !team[ti].Alive() {
				return invalid(i, "target %d is defeated", ti)
			}
		}
	}
	return nil
}
