package game

import "time"

// BattleStatus is the lifecycle status of a battle.
type BattleStatus string

const (
	StatusWaiting  BattleStatus = "waiting"
	StatusActive   BattleStatus = "active"
	StatusFinished BattleStatus = "finished"
)

// Phase tracks the round state machine while a battle is active.
type Phase string

const (
	PhaseAwaitingMoves Phase = "awaiting_moves"
	PhaseResolving     Phase = "resolving"
	PhaseResolved      Phase = "resolved"
)

// Mode is how the battle was matched.
type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvE Mode = "pve"
)

func (m Mode) Valid() bool { return m == ModePvP || m == ModePvE }

// EndReason explains why a battle finished.
type EndReason string

const (
	EndNone        EndReason = ""
	EndElimination EndReason = "elimination"
	EndForfeit     EndReason = "forfeit"
	EndTimeout     EndReason = "timeout"
	EndAnomaly     EndReason = "anomaly"
)

// Elimination is the per-round outcome of the win check.
type Elimination string

const (
	EliminatedNone  Elimination = "none"
	EliminatedSide1 Elimination = "side1"
	EliminatedSide2 Elimination = "side2"
	EliminatedDraw  Elimination = "draw"
)

// BattleAction is one submitted move for the current round.
type BattleAction struct {
	CombatantIndex int    `json:"combatant_index"`
	CardID         string `json:"card_id"`
	// TargetIndex is required when the card targets a single enemy or ally.
	TargetIndex *int `json:"target_index,omitempty"`
}

// Side is one of the two participants.
type Side struct {
	Address      string         `json:"address"`
	AI           bool           `json:"ai"`
	Team         []Combatant    `json:"team"`
	Pending      []BattleAction `json:"-"`
	Submitted    bool           `json:"submitted"`
	MissedRounds int            `json:"missed_rounds"`
}

// Eliminated reports whether every combatant on the side is at 0 hp.
func (s *Side) Eliminated() bool {
	for i := range s.Team {
		if s.Team[i].Alive() {
			return false
		}
	}
	return true
}

// ReadyCount returns how many combatants are alive and not stunned.
func (s *Side) ReadyCount() int {
	n := 0
	for i := range s.Team {
		if s.Team[i].CanAct() {
			n++
		}
	}
	return n
}

// Battle is the authoritative state of a match. It is owned by the
// session store; everything outside of it works on clones.
type Battle struct {
	ID            string       `json:"id"`
	Mode          Mode         `json:"mode"`
	StakeTier     string       `json:"stake_tier,omitempty"`
	Sides         [2]Side      `json:"sides"`
	Round         int          `json:"round"`
	Status        BattleStatus `json:"status"`
	Phase         Phase        `json:"phase"`
	Winner        string       `json:"winner,omitempty"`
	Draw          bool         `json:"draw"`
	EndReason     EndReason    `json:"end_reason,omitempty"`
	Message       string       `json:"message"`
	LastRound     *RoundResult `json:"last_round,omitempty"`
	RoundDeadline time.Time    `json:"round_deadline"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	FinishedAt    time.Time    `json:"finished_at"`
}

// SideIndex returns the side index for the wallet address, or -1.
func (b *Battle) SideIndex(address string) int {
	for i := range b.Sides {
		if b.Sides[i].Address == address {
			return i
		}
	}
	return -1
}

// Finish moves the battle to the terminal state. An empty winner with
// draw=false means the battle ended without a result (for instance both
// sides timed out).
func (b *Battle) Finish(winner string, draw bool, reason EndReason, now time.Time) {
	b.Status = StatusFinished
	b.Phase = PhaseResolved
	b.Winner = winner
	b.Draw = draw
	b.EndReason = reason
	b.FinishedAt = now
	b.RoundDeadline = time.Time{}
	for i := range b.Sides {
		b.Sides[i].Pending = nil
		b.Sides[i].Submitted = false
	}
}

// Clone returns a deep copy safe to hand to callers.
func (b *Battle) Clone() *Battle {
	if b == nil {
		return nil
	}
	out := *b
	for i := range b.Sides {
		s := b.Sides[i]
		team := make([]Combatant, len(s.Team))
		for j := range s.Team {
			team[j] = s.Team[j].Clone()
		}
		s.Team = team
		s.Pending = cloneActions(s.Pending)
		out.Sides[i] = s
	}
	if b.LastRound != nil {
		lr := b.LastRound.Clone()
		out.LastRound = &lr
	}
	return &out
}

func cloneActions(in []BattleAction) []BattleAction {
	if in == nil {
		return nil
	}
	out := make([]BattleAction, len(in))
	for i, a := range in {
		out[i] = a
		if a.TargetIndex != nil {
			t := *a.TargetIndex
			out[i].TargetIndex = &t
		}
	}
	return out
}
