package service

import (
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/engine"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/keys"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
	"github.com/ericogr/chimera-arena/internal/session"
	"github.com/ericogr/chimera-arena/internal/storage"
	"github.com/ericogr/chimera-arena/internal/telemetry"
)

var (
	ErrNotFound       = errors.New("battle not found")
	ErrNotActive      = errors.New("battle is not active")
	ErrNotParticipant = errors.New("player not part of this battle")
	ErrConflict       = errors.New("moves already submitted for this round")
)

// ValidationError rejects a malformed request. Battle state is untouched.
type ValidationError = engine.ValidationError

func invalid(reason string) error {
	return &ValidationError{Action: -1, Reason: reason}
}

// Catalog resolves cards and creature templates.
type Catalog interface {
	engine.CardLookup
	Creature(id string) (game.CreatureTemplate, error)
	// Available fails while cards cannot be loaded at all.
	Available() error
}

// Settings are the battle rules taken from config.
type Settings struct {
	RoundTimeout             time.Duration
	ForfeitAfterMissedRounds int
	TeamSize                 int
}

// BattleService implements the battle operations on top of the session
// store. Every state change runs inside store.Update so it is serialized per
// battle; persistence and notifications happen after the change is
// committed.
type BattleService struct {
	store   *session.Store
	catalog Catalog
	repo    storage.Repository
	pub     notify.Publisher
	cfg     Settings
	now     func() time.Time
	tracer  trace.Tracer

	wg     sync.WaitGroup
	outbox outbox
}

func NewBattleService(store *session.Store, cat Catalog, repo storage.Repository, pub notify.Publisher, cfg Settings) *BattleService {
	if pub == nil {
		pub = notify.Nop{}
	}
	if cfg.ForfeitAfterMissedRounds <= 0 {
		cfg.ForfeitAfterMissedRounds = 3
	}
	if cfg.TeamSize <= 0 {
		cfg.TeamSize = 3
	}
	return &BattleService{
		store:   store,
		catalog: cat,
		repo:    repo,
		pub:     pub,
		cfg:     cfg,
		now:     time.Now,
		tracer:  telemetry.Tracer(),
		outbox:  outbox{queues: make(map[string][]event)},
	}
}

// SetClock replaces the time source. Used by tests.
func (s *BattleService) SetClock(now func() time.Time) { s.now = now }

// Wait blocks until every queued notification has been delivered or has
// failed.
func (s *BattleService) Wait() { s.wg.Wait() }

// GetBattle returns a snapshot of the battle.
func (s *BattleService) GetBattle(id string) (*game.Battle, error) {
	b, err := s.store.Get(id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return b, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// sideOf resolves the caller's side or fails with ErrNotParticipant.
func sideOf(b *game.Battle, address string) (int, error) {
	addr := keys.NormalizeAddress(address)
	if addr == "" || keys.IsAI(addr) {
		return -1, ErrNotParticipant
	}
	side := b.SideIndex(addr)
	if side < 0 {
		return -1, ErrNotParticipant
	}
	return side, nil
}

// openRound prepares a fresh round: new deadline and AI submissions.
func (s *BattleService) openRound(b *game.Battle, now time.Time) {
	if b.Status != game.StatusActive {
		return
	}
	if s.cfg.RoundTimeout > 0 {
		b.RoundDeadline = now.Add(s.cfg.RoundTimeout)
	}
	for i := range b.Sides {
		side := &b.Sides[i]
		if !side.AI || side.Submitted {
			continue
		}
		side.Pending = engine.PlanAI(b, i, s.catalog)
		side.Submitted = true
	}
}

// afterCommit persists a battle that the committed change finished.
// Events are queued by the change itself, see enqueue.
func (s *BattleService) afterCommit(b *game.Battle) {
	if b.Status == game.StatusFinished {
		s.persistFinished(b)
	}
}

// persistFinished writes the history record and the stats of a battle that
// just finished. Failures are logged; the in-memory result stands.
func (s *BattleService) persistFinished(b *game.Battle) {
	if s.repo == nil {
		return
	}
	rec := &game.BattleRecord{
		BattleID:   b.ID,
		Side1:      b.Sides[0].Address,
		Side2:      b.Sides[1].Address,
		MatchupKey: keys.MatchupKey([]string{b.Sides[0].Address, b.Sides[1].Address}),
		Mode:       b.Mode,
		StakeTier:  b.StakeTier,
		Winner:     b.Winner,
		Draw:       b.Draw,
		EndReason:  b.EndReason,
		Rounds:     b.Round,
		StartedAt:  b.CreatedAt,
		FinishedAt: b.FinishedAt,
		FinalRound: b.LastRound,
	}
	fields := logging.Fields{constants.LogFieldBattleID: b.ID, constants.LogFieldWinner: b.Winner, constants.LogFieldReason: string(b.EndReason)}
	if err := s.repo.SaveBattleRecord(rec); err != nil {
		logging.Error("failed to save battle record", err, fields)
	}
	if err := s.repo.UpdateStatsOnBattleEnd(b); err != nil {
		logging.Error("failed to update stats", err, fields)
	}
	logging.Info("battle finished", fields)
}
