package engine

import "github.com/ericogr/chimera-arena/internal/game"

const (
	multSuperEffective = 1.5
	multResisted       = 0.75
	multNeutral        = 1.0
)

// beats lists, for each element, the elements it is super-effective against.
var beats = map[game.Element][]game.Element{
	game.ElementFire:  {game.ElementEarth},
	game.ElementEarth: {game.ElementAir},
	game.ElementAir:   {game.ElementWater},
	game.ElementWater: {game.ElementFire},
	game.ElementLight: {game.ElementDark},
	game.ElementDark:  {game.ElementLight},
}

func elementVersus(att, def game.Element) float64 {
	for _, e := range beats[att] {
		if e == def {
			return multSuperEffective
		}
	}
	// light and dark beat each other, so only the cycle elements resist
	if att == game.ElementLight || att == game.ElementDark {
		return multNeutral
	}
	for _, e := range beats[def] {
		if e == att {
			return multResisted
		}
	}
	return multNeutral
}

// TypeMultiplier returns the elemental multiplier of an attacker's element
// set against a defender's element set. Each attacker element is scored as
// the product over the defender's elements; the best attacker element wins.
func TypeMultiplier(attacker, defender []game.Element) float64 {
	if len(attacker) == 0 || len(defender) == 0 {
		return multNeutral
	}
	best := 0.0
	for _, a := range attacker {
		m := 1.0
		for _, d := range defender {
			m *= elementVersus(a, d)
		}
		if m > best {
			best = m
		}
	}
	return best
}
