package engine

import (
	"fmt"

	"github.com/ericogr/chimera-arena/internal/game"
)

const (
	skipDefeated   = "defeated"
	skipStunned    = "stunned"
	skipNoEnergy   = "insufficient_energy"
	skipRolledBack = "rolled_back"
)

// executePlans runs the ordered plans. Each action is applied to the live
// battlefield; when it fails halfway both teams are restored to the state
// before that action and an anomaly is recorded.
func (rc *roundContext) executePlans(plans []plannedAction) {
	for order, plan := range plans {
		ev := game.ActionEvent{
			Order:          order,
			Side:           plan.side,
			CombatantIndex: plan.action.CombatantIndex,
			CardID:         plan.action.CardID,
			Speed:          plan.speed,
		}

		actor := rc.combatant(plan.side, plan.action.CombatantIndex)
		if actor == nil {
			ev.Skipped = skipRolledBack
			rc.anomaly(order, plan.side, fmt.Sprintf("combatant %d not found", plan.action.CombatantIndex))
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}
		if !actor.Alive() {
			ev.Skipped = skipDefeated
			rc.addf("%s is down and cannot act", displayName(actor))
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}
		card, ok := rc.cards.Card(plan.action.CardID)
		if !ok {
			ev.Skipped = skipRolledBack
			rc.anomaly(order, plan.side, fmt.Sprintf("card %q not found", plan.action.CardID))
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}
		saved := snapshotTeams(rc.b)
		summaryLen := len(rc.result.Summary)
		if !actor.SpendEnergy(card.EnergyCost) {
			ev.Skipped = skipNoEnergy
			rc.addf("%s lacks the energy for %s", displayName(actor), card.Name)
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}
		ev.EnergySpent = card.EnergyCost
		actor.LastAction = card.ID
		if actor.Stunned {
			// stunned actors pay the cost and lose the action
			ev.Skipped = skipStunned
			actor.LastAction = skipStunned
			rc.addf("%s is stunned and loses the turn", displayName(actor))
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}

		outcomes, err := rc.applyCard(plan.side, plan.action.CombatantIndex, card, plan.action.TargetIndex)
		if err != nil {
			restoreTeams(rc.b, saved)
			rc.result.Summary = rc.result.Summary[:summaryLen]
			ev.Skipped = skipRolledBack
			ev.EnergySpent = 0
			rc.anomaly(order, plan.side, err.Error())
			rc.result.Events = append(rc.result.Events, ev)
			continue
		}
		ev.Outcomes = outcomes
		rc.result.Events = append(rc.result.Events, ev)
	}
}

func snapshotTeams(b *game.Battle) [2][]game.Combatant {
	var out [2][]game.Combatant
	for s := range b.Sides {
		team := make([]game.Combatant, len(b.Sides[s].Team))
		for i := range b.Sides[s].Team {
			team[i] = b.Sides[s].Team[i].Clone()
		}
		out[s] = team
	}
	return out
}

func restoreTeams(b *game.Battle, saved [2][]game.Combatant) {
	for s := range b.Sides {
		b.Sides[s].Team = saved[s]
	}
}
