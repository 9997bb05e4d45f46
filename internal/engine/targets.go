package engine

import "github.com/ericogr/chimera-arena/internal/game"

// targetRef addresses one combatant on the battlefield.
type targetRef struct {
	side       int
	index      int
	redirected bool
}

func opponent(side int) int { return 1 - side }

// firstLiving returns the index of the first living combatant on side, or -1.
func firstLiving(team []game.Combatant) int {
	for i := range team {
		if team[i].Alive() {
			return i
		}
	}
	return -1
}

// selectTargets resolves a selector against the current battlefield.
// SINGLE_* selectors whose chosen combatant already fell this round are
// redirected to the first living combatant of the same side; when the side
// has nobody left the result is empty and the effect is skipped.
func (rc *roundContext) selectTargets(casterSide, casterIndex int, sel game.TargetType, targetIndex *int) []targetRef {
	switch sel {
	case game.TargetSelf:
		if c := rc.combatant(casterSide, casterIndex); c != nil && c.Alive() {
			return []targetRef{{side: casterSide, index: casterIndex}}
		}
		return nil
	case game.TargetAllEnemies, game.TargetAllAllies:
		side := casterSide
		if sel == game.TargetAllEnemies {
			side = opponent(casterSide)
		}
		team := rc.b.Sides[side].Team
		out := make([]targetRef, 0, len(team))
		for i := range team {
			if team[i].Alive() {
				out = append(out, targetRef{side: side, index: i})
			}
		}
		return out
	case game.TargetSingleEnemy, game.TargetSingleAlly:
		side := casterSide
		if sel == game.TargetSingleEnemy {
			side = opponent(casterSide)
		}
		team := rc.b.Sides[side].Team
		if targetIndex != nil {
			if t := rc.combatant(side, *targetIndex); t != nil && t.Alive() {
				return []targetRef{{side: side, index: *targetIndex}}
			}
		}
		if i := firstLiving(team); i >= 0 {
			return []targetRef{{side: side, index: i, redirected: true}}
		}
		return nil
	}
	return nil
}
