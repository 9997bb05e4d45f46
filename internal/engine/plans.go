package engine

import (
	"sort"

	"github.com/ericogr/chimera-arena/internal/game"
)

// --- Planned action model ---------------------------------------------
type plannedAction struct {
	side     int
	position int // index inside the side's submission
	action   game.BattleAction
	speed    int
}

// sidePriority returns the side that wins speed ties this round. Side 1
// takes odd rounds and side 2 even rounds, so neither side owns every tie.
func sidePriority(round int) int {
	if round%2 == 0 {
		return 1
	}
	return 0
}

// buildPlans merges both submissions into one execution order. Speed is
// snapshotted before any action resolves, so speed changes applied during
// the round take effect from the next round on.
func (rc *roundContext) buildPlans() []plannedAction {
	plans := make([]plannedAction, 0, 6)
	for side := range rc.b.Sides {
		for pos, a := range rc.b.Sides[side].Pending {
			speed := 0
			if c := rc.combatant(side, a.CombatantIndex); c != nil {
				speed = c.EffectiveSpeed()
			}
			plans = append(plans, plannedAction{side: side, position: pos, action: a, speed: speed})
		}
	}

	first := sidePriority(rc.b.Round)
	sort.SliceStable(plans, func(i, j int) bool {
		pi, pj := plans[i], plans[j]
		if pi.speed != pj.speed {
			return pi.speed > pj.speed
		}
		if pi.side != pj.side {
			return pi.side == first
		}
		if pi.action.CombatantIndex != pj.action.CombatantIndex {
			return pi.action.CombatantIndex < pj.action.CombatantIndex
		}
		return pi.position < pj.position
	})
	return plans
}
