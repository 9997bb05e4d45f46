package engine

import (
	"fmt"
	"math"

	"github.com/ericogr/chimera-arena/internal/game"
)

// ApplyCard applies card's effects, cast by the combatant at (side, index),
// to the battlefield b. Energy is not touched: the caller pays the cost
// before calling. The returned outcomes are in application order.
func ApplyCard(b *game.Battle, side, index int, card *game.Card, targetIndex *int) ([]game.TargetOutcome, error) {
	rc := newRoundContext(b, nil)
	return rc.applyCard(side, index, card, targetIndex)
}

func (rc *roundContext) applyCard(side, index int, card *game.Card, targetIndex *int) ([]game.TargetOutcome, error) {
	caster := rc.combatant(side, index)
	if caster == nil {
		return nil, fmt.Errorf("caster %d/%d not found", side, index)
	}
	if card == nil {
		return nil, fmt.Errorf("nil card")
	}
	outcomes := make([]game.TargetOutcome, 0, len(card.Effects))
	doublePending := false

	for _, eff := range card.Effects {
		if !eff.Kind.Valid() {
			return nil, fmt.Errorf("card %s: unknown effect kind %q", card.ID, eff.Kind)
		}
		if eff.Kind == game.EffectDoubleDamage {
			doublePending = true
			rc.addf("%s charges up: the next hit of %s deals double damage", displayName(caster), card.Name)
			continue
		}
		if !eff.Target.Valid() {
			return nil, fmt.Errorf("card %s: unknown target selector %q", card.ID, eff.Target)
		}
		targets := rc.selectTargets(side, index, eff.Target, targetIndex)
		if len(targets) == 0 {
			rc.addf("%s: %s has no valid target", displayName(caster), card.Name)
			continue
		}

		switch eff.Kind {
		case game.EffectDamage, game.EffectDamageWithHeal:
			dmgEff := eff
			if eff.Kind == game.EffectDamageWithHeal {
				// magnitude is the lifesteal percentage, not a damage scale
				dmgEff.Magnitude = 0
			}
			dealt := 0
			for _, t := range targets {
				o := rc.applyDamage(caster, card, dmgEff, t, doublePending)
				o.Effect = eff.Kind
				dealt += o.Damage
				outcomes = append(outcomes, o)
			}
			doublePending = false
			if eff.Kind == game.EffectDamageWithHeal && dealt > 0 {
				amount := int(math.Round(float64(dealt) * float64(eff.Magnitude) / 100.0))
				healed := caster.Heal(amount)
				outcomes = append(outcomes, game.TargetOutcome{Side: side, Index: index, Effect: eff.Kind, Healed: healed})
				if healed > 0 {
					rc.addf("%s drains %d HP", displayName(caster), healed)
				}
			}
		case game.EffectHeal:
			amount := eff.Magnitude
			if eff.ScalesWithAttack {
				amount = int(math.Round(float64(caster.EffectiveAttack()) * float64(eff.Magnitude) / 100.0))
			}
			for _, t := range targets {
				c := rc.combatant(t.side, t.index)
				healed := c.Heal(amount)
				outcomes = append(outcomes, game.TargetOutcome{Side: t.side, Index: t.index, Effect: eff.Kind, Healed: healed, Redirected: t.redirected})
				rc.addf("%s heals %s for %d HP", displayName(caster), displayName(c), healed)
			}
		case game.EffectShield:
			amount := eff.Magnitude + int(math.Round(float64(caster.EffectiveDefense())*card.DefenseModifier))
			if amount < 0 {
				amount = 0
			}
			for _, t := range targets {
				c := rc.combatant(t.side, t.index)
				c.Shield += amount
				outcomes = append(outcomes, game.TargetOutcome{Side: t.side, Index: t.index, Effect: eff.Kind, ShieldAdded: amount, Redirected: t.redirected})
				rc.addf("%s shields %s for %d", displayName(caster), displayName(c), amount)
			}
		case game.EffectBuff, game.EffectDebuff:
			kind, ok := game.StatusKindForStat(eff.Stat)
			if !ok {
				return nil, fmt.Errorf("card %s: unknown stat %q", card.ID, eff.Stat)
			}
			mag := eff.Magnitude
			verb := "raises"
			if eff.Kind == game.EffectDebuff {
				mag = -mag
				verb = "lowers"
			}
			for _, t := range targets {
				c := rc.combatant(t.side, t.index)
				c.AddStatus(game.StatusEffect{Kind: kind, Magnitude: mag, Remaining: eff.Rounds(), SourceID: card.ID})
				outcomes = append(outcomes, game.TargetOutcome{Side: t.side, Index: t.index, Effect: eff.Kind, Status: kind, Redirected: t.redirected})
				rc.addf("%s %s %s's %s by %d%% for %d round(s)", displayName(caster), verb, displayName(c), eff.Stat, eff.Magnitude, eff.Rounds())
			}
		case game.EffectStun:
			for _, t := range targets {
				c := rc.combatant(t.side, t.index)
				c.AddStatus(game.StatusEffect{Kind: game.StatusStun, Remaining: eff.Rounds(), SourceID: card.ID})
				outcomes = append(outcomes, game.TargetOutcome{Side: t.side, Index: t.index, Effect: eff.Kind, Status: game.StatusStun, Redirected: t.redirected})
				rc.addf("%s stuns %s for %d round(s)", displayName(caster), displayName(c), eff.Rounds())
			}
		}
	}
	return outcomes, nil
}

func (rc *roundContext) applyDamage(caster *game.Combatant, card *game.Card, eff game.CardEffect, t targetRef, doubled bool) game.TargetOutcome {
	target := rc.combatant(t.side, t.index)
	dmg, mult := ComputeDamage(caster, target, card, eff, doubled)
	hpLost, shieldUsed := target.AbsorbDamage(dmg)
	o := game.TargetOutcome{
		Side:       t.side,
		Index:      t.index,
		Damage:     hpLost,
		ShieldUsed: shieldUsed,
		Multiplier: mult,
		Redirected: t.redirected,
		Defeated:   !target.Alive(),
	}
	msg := fmt.Sprintf("%s hits %s with %s for %d damage", displayName(caster), displayName(target), card.Name, dmg)
	switch {
	case mult > multNeutral:
		msg += " (super effective)"
	case mult < multNeutral:
		msg += " (resisted)"
	}
	if shieldUsed > 0 {
		msg += fmt.Sprintf(", %d absorbed by shield", shieldUsed)
	}
	if doubled {
		msg += ", doubled"
	}
	rc.add(msg)
	if o.Defeated {
		rc.addf("%s is defeated!", displayName(target))
	}
	return o
}
