package game

import "math"

// StatusKind is the kind of a timed status effect attached to a combatant.
type StatusKind string

const (
	StatusAttackMod  StatusKind = "attack_mod"
	StatusDefenseMod StatusKind = "defense_mod"
	StatusSpeedMod   StatusKind = "speed_mod"
	StatusEnergyMod  StatusKind = "energy_mod"
	StatusStun       StatusKind = "stun"
)

// StatusKindForStat maps a buffable stat to its modifier status kind.
func StatusKindForStat(s Stat) (StatusKind, bool) {
	switch s {
	case StatAttack:
		return StatusAttackMod, true
	case StatDefense:
		return StatusDefenseMod, true
	case StatSpeed:
		return StatusSpeedMod, true
	case StatEnergy:
		return StatusEnergyMod, true
	}
	return "", false
}

// StatusEffect is a timed modifier. Magnitude is a signed percentage for
// the *_mod kinds and unused for stun.
type StatusEffect struct {
	Kind      StatusKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Remaining int        `json:"remaining"`
	SourceID  string     `json:"source_id,omitempty"`
}

// Combatant is one creature's battle-time state.
type Combatant struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name"`
	Elements   []Element `json:"elements"`

	HP          int `json:"hp"`
	MaxHP       int `json:"max_hp"`
	Speed       int `json:"speed"`
	BaseAttack  int `json:"base_attack"`
	BaseDefense int `json:"base_defense"`
	Energy      int `json:"energy"`
	MaxEnergy   int `json:"max_energy"`

	Shield        int            `json:"shield"`
	Stunned       bool           `json:"stunned"`
	StatusEffects []StatusEffect `json:"status_effects"`
	Deck          []string       `json:"deck"`
	LastAction    string         `json:"last_action"`
}

// Alive reports hp > 0.
func (c *Combatant) Alive() bool { return c.HP > 0 }

// CanAct reports whether the combatant is alive and not stunned.
func (c *Combatant) CanAct() bool { return c.Alive() && !c.Stunned }

// HasCard reports whether the card id is part of the combatant's deck.
func (c *Combatant) HasCard(cardID string) bool {
	for _, id := range c.Deck {
		if id == cardID {
			return true
		}
	}
	return false
}

// ModifierPercent sums the magnitudes of all active statuses of kind.
func (c *Combatant) ModifierPercent(kind StatusKind) int {
	total := 0
	for _, s := range c.StatusEffects {
		if s.Kind == kind && s.Remaining > 0 {
			total += s.Magnitude
		}
	}
	return total
}

// applyPercent scales base by (1 + pct/100), rounding half away from zero
// and flooring at zero.
func applyPercent(base, pct int) int {
	v := int(math.Round(float64(base) * (1.0 + float64(pct)/100.0)))
	if v < 0 {
		return 0
	}
	return v
}

func (c *Combatant) EffectiveAttack() int {
	return applyPercent(c.BaseAttack, c.ModifierPercent(StatusAttackMod))
}

func (c *Combatant) EffectiveDefense() int {
	return applyPercent(c.BaseDefense, c.ModifierPercent(StatusDefenseMod))
}

func (c *Combatant) EffectiveSpeed() int {
	return applyPercent(c.Speed, c.ModifierPercent(StatusSpeedMod))
}

// RefillEnergy is the energy the combatant starts the next round with.
func (c *Combatant) RefillEnergy() int {
	v := applyPercent(c.MaxEnergy, c.ModifierPercent(StatusEnergyMod))
	if v > c.MaxEnergy {
		return c.MaxEnergy
	}
	return v
}

// AddStatus attaches a status effect. Statuses never merge: each
// application keeps its own duration.
func (c *Combatant) AddStatus(s StatusEffect) {
	if s.Remaining <= 0 {
		return
	}
	c.StatusEffects = append(c.StatusEffects, s)
	if s.Kind == StatusStun {
		c.Stunned = true
	}
}

// TickStatuses decrements every status by one round and drops expired ones.
func (c *Combatant) TickStatuses() {
	kept := c.StatusEffects[:0]
	stunned := false
	for _, s := range c.StatusEffects {
		s.Remaining--
		if s.Remaining <= 0 {
			continue
		}
		if s.Kind == StatusStun {
			stunned = true
		}
		kept = append(kept, s)
	}
	c.StatusEffects = kept
	c.Stunned = stunned
}

// AbsorbDamage consumes shield first and removes the remainder from hp.
// It returns the hp lost and the shield consumed.
func (c *Combatant) AbsorbDamage(dmg int) (hpLost, shieldUsed int) {
	if dmg <= 0 {
		return 0, 0
	}
	shieldUsed = dmg
	if shieldUsed > c.Shield {
		shieldUsed = c.Shield
	}
	c.Shield -= shieldUsed
	hpLost = dmg - shieldUsed
	if hpLost > c.HP {
		hpLost = c.HP
	}
	c.HP -= hpLost
	return hpLost, shieldUsed
}

// Heal restores up to amount hp, capped at MaxHP. Dead combatants stay dead.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.Alive() {
		return 0
	}
	if c.HP+amount > c.MaxHP {
		amount = c.MaxHP - c.HP
	}
	c.HP += amount
	return amount
}

// SpendEnergy deducts cost when affordable.
func (c *Combatant) SpendEnergy(cost int) bool {
	if cost < 0 || cost > c.Energy {
		return false
	}
	c.Energy -= cost
	return true
}

// EndRound drops unconsumed shield and refills energy for the next round.
func (c *Combatant) EndRound() {
	c.Shield = 0
	if !c.Alive() {
		c.Energy = 0
		c.StatusEffects = nil
		c.Stunned = false
		return
	}
	c.Energy = c.RefillEnergy()
}

// Clone returns a deep copy.
func (c Combatant) Clone() Combatant {
	out := c
	out.Elements = append([]Element(nil), c.Elements...)
	out.StatusEffects = append([]StatusEffect(nil), c.StatusEffects...)
	out.Deck = append([]string(nil), c.Deck...)
	return out
}
