package engine

import (
	"math"

	"github.com/ericogr/chimera-arena/internal/game"
)

// mitigationConstant sets how fast defense mitigates damage: a defense
// equal to the constant halves incoming damage.
const mitigationConstant = 100.0

// rawDamage is the pre-mitigation damage of a DAMAGE effect.
func rawDamage(caster *game.Combatant, card *game.Card, eff game.CardEffect, doubled bool) float64 {
	mod := card.AttackModifier
	if eff.Magnitude > 0 {
		mod *= float64(eff.Magnitude) / 100.0
	}
	raw := float64(caster.EffectiveAttack()) * mod
	if doubled {
		raw *= 2
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// mitigate applies percentage mitigation from defense and the elemental
// multiplier. Any positive raw damage deals at least 1.
func mitigate(raw float64, defense int, mult float64) int {
	if raw <= 0 {
		return 0
	}
	if defense < 0 {
		defense = 0
	}
	dmg := raw * mitigationConstant / (mitigationConstant + float64(defense)) * mult
	out := int(math.Round(dmg))
	if out < 1 {
		out = 1
	}
	return out
}

// ComputeDamage returns the damage a caster's DAMAGE effect deals to target
// before shield absorption, together with the elemental multiplier used.
func ComputeDamage(caster, target *game.Combatant, card *game.Card, eff game.CardEffect, doubled bool) (int, float64) {
	mult := TypeMultiplier(caster.Elements, target.Elements)
	return mitigate(rawDamage(caster, card, eff, doubled), target.EffectiveDefense(), mult), mult
}
