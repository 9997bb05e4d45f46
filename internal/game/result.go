package game

// TargetOutcome records what one effect did to one combatant.
type TargetOutcome struct {
	Side        int        `json:"side"`
	Index       int        `json:"index"`
	Effect      EffectKind `json:"effect"`
	Damage      int        `json:"damage,omitempty"`
	ShieldUsed  int        `json:"shield_used,omitempty"`
	Healed      int        `json:"healed,omitempty"`
	ShieldAdded int        `json:"shield_added,omitempty"`
	Status      StatusKind `json:"status,omitempty"`
	Multiplier  float64    `json:"multiplier,omitempty"`
	Redirected  bool       `json:"redirected,omitempty"`
	Defeated    bool       `json:"defeated,omitempty"`
}

// ActionEvent is the resolution record of one BattleAction.
type ActionEvent struct {
	Order          int             `json:"order"`
	Side           int             `json:"side"`
	CombatantIndex int             `json:"combatant_index"`
	CardID         string          `json:"card_id"`
	Speed          int             `json:"speed"`
	EnergySpent    int             `json:"energy_spent"`
	Skipped        string          `json:"skipped,omitempty"`
	Outcomes       []TargetOutcome `json:"outcomes,omitempty"`
}

// Anomaly is an internal resolution error surfaced for observability. The
// action it belongs to was rolled back.
type Anomaly struct {
	Order  int    `json:"order"`
	Side   int    `json:"side"`
	Reason string `json:"reason"`
}

// RoundResult is the snapshot of one resolved round.
type RoundResult struct {
	Round      int           `json:"round"`
	Events     []ActionEvent `json:"events"`
	Summary    []string      `json:"summary"`
	Anomalies  []Anomaly     `json:"anomalies,omitempty"`
	Eliminated Elimination   `json:"eliminated"`
}

// Clean reports whether the round resolved without anomalies.
func (r *RoundResult) Clean() bool { return len(r.Anomalies) == 0 }

func (r RoundResult) Clone() RoundResult {
	out := r
	out.Events = make([]ActionEvent, len(r.Events))
	for i, e := range r.Events {
		e.Outcomes = append([]TargetOutcome(nil), e.Outcomes...)
		out.Events[i] = e
	}
	out.Summary = append([]string(nil), r.Summary...)
	out.Anomalies = append([]Anomaly(nil), r.Anomalies...)
	return out
}
