package engine

import (
	"fmt"
	"time"

	"github.com/ericogr/chimera-arena/internal/game"
)

// Outcome evaluates the win condition on the current teams.
func Outcome(b *game.Battle) game.Elimination {
	e1 := b.Sides[0].Eliminated()
	e2 := b.Sides[1].Eliminated()
	switch {
	case e1 && e2:
		return game.EliminatedDraw
	case e1:
		return game.EliminatedSide1
	case e2:
		return game.EliminatedSide2
	}
	return game.EliminatedNone
}

// applyOutcome finishes the battle when a side has been eliminated.
func (rc *roundContext) applyOutcome(out game.Elimination, now time.Time) bool {
	rc.result.Eliminated = out
	b := rc.b
	switch out {
	case game.EliminatedDraw:
		b.Finish("", true, game.EndElimination, now)
		b.Message = "Both teams fell. The battle is a draw."
	case game.EliminatedSide1:
		b.Finish(b.Sides[1].Address, false, game.EndElimination, now)
		b.Message = "Victory for " + sideLabel(b, 1)
	case game.EliminatedSide2:
		b.Finish(b.Sides[0].Address, false, game.EndElimination, now)
		b.Message = "Victory for " + sideLabel(b, 0)
	default:
		return false
	}
	rc.add(b.Message)
	return true
}

// endOfRound decays statuses, drops shields and refills energy. It runs
// exactly once per resolved round.
func (rc *roundContext) endOfRound() {
	for s := range rc.b.Sides {
		for i := range rc.b.Sides[s].Team {
			c := &rc.b.Sides[s].Team[i]
			c.TickStatuses()
			c.EndRound()
		}
	}
}

// clampInvariants forces hp into [0, MaxHP] and energy into [0, MaxEnergy].
// It reports whether anything had to be corrected.
func (rc *roundContext) clampInvariants() bool {
	fixed := false
	for s := range rc.b.Sides {
		for i := range rc.b.Sides[s].Team {
			c := &rc.b.Sides[s].Team[i]
			if c.HP < 0 || c.HP > c.MaxHP {
				fixed = true
				c.HP = clamp(c.HP, 0, c.MaxHP)
			}
			if c.Energy < 0 || c.Energy > c.MaxEnergy {
				fixed = true
				c.Energy = clamp(c.Energy, 0, c.MaxEnergy)
			}
			if c.Shield < 0 {
				fixed = true
				c.Shield = 0
			}
		}
	}
	return fixed
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ResolveRound resolves the current round of an active battle whose two
// sides have both submitted. It orders the pending actions by speed, applies
// them, runs the end-of-round upkeep and the win check, and either opens the
// next round or finishes the battle. The returned result is also stored as
// b.LastRound.
func ResolveRound(b *game.Battle, cards CardLookup, now time.Time) *game.RoundResult {
	b.Phase = game.PhaseResolving
	rc := newRoundContext(b, cards)

	// a side may already be out (for instance after a rollback); no actions
	// are processed in that case
	if out := Outcome(b); out != game.EliminatedNone {
		rc.add("A team entered the round with no combatant standing")
		rc.applyOutcome(out, now)
		b.LastRound = rc.result
		b.UpdatedAt = now
		return rc.result
	}

	rc.addf("Round %d", b.Round)
	plans := rc.buildPlans()
	rc.executePlans(plans)
	out := Outcome(b)
	rc.endOfRound()

	if rc.clampInvariants() {
		rc.result.Anomalies = append(rc.result.Anomalies, game.Anomaly{Order: -1, Side: -1, Reason: "combatant stats left their bounds and were clamped"})
		b.Finish("", true, game.EndAnomaly, now)
		b.Message = "The battle was stopped after an internal error and recorded as a draw."
		rc.result.Eliminated = game.EliminatedDraw
		rc.add(b.Message)
	} else if !rc.applyOutcome(out, now) {
		b.Round++
		b.Phase = game.PhaseAwaitingMoves
		b.Message = fmt.Sprintf("Round %d. Choose your actions.", b.Round)
		for i := range b.Sides {
			b.Sides[i].Pending = nil
			b.Sides[i].Submitted = false
		}
	}

	b.LastRound = rc.result
	b.UpdatedAt = now
	return rc.result
}
