package engine

import (
	"sort"

	"github.com/ericogr/chimera-arena/internal/game"
)

// heuristic weights for non-damage effects
const (
	aiShieldWeight = 0.5
	aiStatusWeight = 0.3
	aiStunValue    = 15.0
)

type aiCandidate struct {
	card     *game.Card
	target   *int
	score    float64
	lethal   bool
	targetHP int
}

// PlanAI builds a deterministic submission for an AI-controlled side. Every
// combatant able to act picks one card: a card that finishes off an enemy
// wins (cheapest first, then weakest target); otherwise the card with the
// highest estimated value. Ties fall back to card id and target index so the
// same state always yields the same moves.
func PlanAI(b *game.Battle, side int, cards CardLookup) []game.BattleAction {
	s := &b.Sides[side]
	actions := make([]game.BattleAction, 0, len(s.Team))
	for i := range s.Team {
		c := &s.Team[i]
		if !c.CanAct() {
			continue
		}
		best := bestCandidate(b, side, i, cards)
		if best == nil {
			continue
		}
		actions = append(actions, game.BattleAction{CombatantIndex: i, CardID: best.card.ID, TargetIndex: best.target})
	}
	return actions
}

func bestCandidate(b *game.Battle, side, index int, cards CardLookup) *aiCandidate {
	caster := &b.Sides[side].Team[index]
	ids := append([]string(nil), caster.Deck...)
	sort.Strings(ids)

	var best *aiCandidate
	prev := ""
	for _, id := range ids {
		if id == prev {
			continue
		}
		prev = id
		card, ok := cards.Card(id)
		if !ok || card.EnergyCost > caster.Energy {
			continue
		}
		for _, t := range candidateTargets(b, side, card) {
			cand := evaluate(b, side, index, card, t)
			if better(cand, best) {
				cand := cand
				best = &cand
			}
		}
	}
	return best
}

// better reports whether a should replace the current best b. Candidates
// are visited in card id then target order, so strict comparisons keep the
// earliest one on ties.
func better(a aiCandidate, b *aiCandidate) bool {
	if b == nil {
		return true
	}
	if a.lethal != b.lethal {
		return a.lethal
	}
	if a.lethal {
		if a.card.EnergyCost != b.card.EnergyCost {
			return a.card.EnergyCost < b.card.EnergyCost
		}
		return a.targetHP < b.targetHP
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.card.EnergyCost < b.card.EnergyCost
}

func candidateTargets(b *game.Battle, side int, card *game.Card) []*int {
	if !card.NeedsTargetIndex() {
		return []*int{nil}
	}
	tside := side
	if card.PrimaryTarget().Enemy() {
		tside = opponent(side)
	}
	team := b.Sides[tside].Team
	out := make([]*int, 0, len(team))
	for i := range team {
		if team[i].Alive() {
			idx := i
			out = append(out, &idx)
		}
	}
	return out
}

// evaluate estimates the value of playing card at target without mutating
// the battle.
func evaluate(b *game.Battle, side, index int, card *game.Card, target *int) aiCandidate {
	caster := &b.Sides[side].Team[index]
	cand := aiCandidate{card: card, target: target}
	doubled := false

	resolve := func(sel game.TargetType) []*game.Combatant {
		var team []game.Combatant
		if sel.Enemy() {
			team = b.Sides[opponent(side)].Team
		} else {
			team = b.Sides[side].Team
		}
		switch sel {
		case game.TargetSelf:
			return []*game.Combatant{caster}
		case game.TargetSingleEnemy, game.TargetSingleAlly:
			if target != nil && *target >= 0 && *target < len(team) && team[*target].Alive() {
				return []*game.Combatant{&team[*target]}
			}
			if i := firstLiving(team); i >= 0 {
				return []*game.Combatant{&team[i]}
			}
			return nil
		}
		out := make([]*game.Combatant, 0, len(team))
		for i := range team {
			if team[i].Alive() {
				out = append(out, &team[i])
			}
		}
		return out
	}

	for _, eff := range card.Effects {
		if eff.Kind == game.EffectDoubleDamage {
			doubled = true
			continue
		}
		targets := resolve(eff.Target)
		switch eff.Kind {
		case game.EffectDamage, game.EffectDamageWithHeal:
			dmgEff := eff
			if eff.Kind == game.EffectDamageWithHeal {
				dmgEff.Magnitude = 0
			}
			for _, t := range targets {
				dmg, _ := ComputeDamage(caster, t, card, dmgEff, doubled)
				effective := dmg - t.Shield
				if effective < 0 {
					effective = 0
				}
				if effective > t.HP {
					effective = t.HP
				}
				cand.score += float64(effective)
				if eff.Kind == game.EffectDamageWithHeal {
					cand.score += float64(min(effective*eff.Magnitude/100, caster.MaxHP-caster.HP))
				}
				if effective >= t.HP {
					if !cand.lethal || t.HP < cand.targetHP {
						cand.targetHP = t.HP
					}
					cand.lethal = true
				}
			}
			doubled = false
		case game.EffectHeal:
			amount := eff.Magnitude
			if eff.ScalesWithAttack {
				amount = caster.EffectiveAttack() * eff.Magnitude / 100
			}
			for _, t := range targets {
				cand.score += float64(min(amount, t.MaxHP-t.HP))
			}
		case game.EffectShield:
			cand.score += aiShieldWeight * float64(eff.Magnitude) * float64(len(targets))
		case game.EffectBuff, game.EffectDebuff:
			cand.score += aiStatusWeight * float64(eff.Magnitude*eff.Rounds()) * float64(len(targets))
		case game.EffectStun:
			tSide := side
			if eff.Target.Enemy() {
				tSide = opponent(side)
			}
			for _, t := range targets {
				if t.Stunned {
					continue
				}
				// statuses tick at the end of the round they land in, so a
				// target that already acted loses one round less
				denied := eff.Rounds()
				if !actsBefore(b, side, index, tSide, indexOf(b.Sides[tSide].Team, t)) {
					denied--
				}
				if denied > 0 {
					cand.score += aiStunValue * float64(denied)
				}
			}
		}
	}
	return cand
}

// actsBefore reports whether the combatant at (side, index) moves ahead of
// the one at (tSide, tIndex) this round, using the order buildPlans applies.
func actsBefore(b *game.Battle, side, index, tSide, tIndex int) bool {
	if tIndex < 0 {
		return false
	}
	mine := b.Sides[side].Team[index].EffectiveSpeed()
	theirs := b.Sides[tSide].Team[tIndex].EffectiveSpeed()
	if mine != theirs {
		return mine > theirs
	}
	if side != tSide {
		return side == sidePriority(b.Round)
	}
	return index < tIndex
}

func indexOf(team []game.Combatant, c *game.Combatant) int {
	for i := range team {
		if &team[i] == c {
			return i
		}
	}
	return -1
}
