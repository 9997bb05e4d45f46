package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
)

var (
	ErrNotFound = errors.New("battle not found")
	ErrExists   = errors.New("battle already exists")
)

// Config controls eviction. Zero durations disable the matching rule.
type Config struct {
	IdleTimeout   time.Duration
	FinishedGrace time.Duration
}

type entry struct {
	mu      sync.Mutex
	battle  *game.Battle
	removed bool
}

// Store is the in-memory owner of every live battle. Each battle carries its
// own mutex so work on different battles never contends; the map lock only
// guards membership.
type Store struct {
	cfg Config
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, now: time.Now, entries: make(map[string]*entry)}
}

// SetClock replaces the time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Create stores b and returns a snapshot of it. An empty ID gets a fresh
// uuid.
func (s *Store) Create(b *game.Battle) (*game.Battle, error) {
	owned := b.Clone()
	if owned.ID == "" {
		owned.ID = uuid.NewString()
	}
	ts := s.now()
	if owned.CreatedAt.IsZero() {
		owned.CreatedAt = ts
	}
	owned.UpdatedAt = ts

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[owned.ID]; ok {
		return nil, ErrExists
	}
	s.entries[owned.ID] = &entry{battle: owned}
	return owned.Clone(), nil
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Get returns a snapshot of the battle.
func (s *Store) Get(id string) (*game.Battle, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrNotFound
	}
	return e.battle.Clone(), nil
}

// Update runs fn on a working copy of the battle while holding the battle's
// lock. The copy replaces the stored battle only when fn returns nil, so a
// rejected operation leaves no trace. The committed snapshot is returned.
func (s *Store) Update(id string, fn func(b *game.Battle) error) (*game.Battle, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrNotFound
	}
	work := e.battle.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.battle = work
	return work.Clone(), nil
}

// Delete removes a battle, waiting for any operation in flight on it.
func (s *Store) Delete(id string) {
	e, ok := s.lookup(id)
	if !ok {
		return
	}
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()

	s.mu.Lock()
	if cur, ok := s.entries[id]; ok && cur == e {
		delete(s.entries, id)
	}
	s.mu.Unlock()
}

// List returns snapshots of all stored battles ordered by creation time.
func (s *Store) List() []*game.Battle {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*game.Battle, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			out = append(out, e.battle.Clone())
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored battles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(b *game.Battle, now time.Time) bool {
	if b.Status == game.StatusFinished {
		return s.cfg.FinishedGrace > 0 && now.Sub(b.FinishedAt) >= s.cfg.FinishedGrace
	}
	return s.cfg.IdleTimeout > 0 && now.Sub(b.UpdatedAt) >= s.cfg.IdleTimeout
}

// Sweep evicts finished battles past their grace period and battles idle
// for longer than the idle timeout. Battles whose lock is held are left for
// the next sweep so eviction never races a resolution. It returns the ids
// removed.
func (s *Store) Sweep(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if s.expired(e.battle, now) {
			e.removed = true
			delete(s.entries, id)
			removed = append(removed, id)
		}
		e.mu.Unlock()
	}
	sort.Strings(removed)
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ids := s.Sweep(s.now()); len(ids) > 0 {
					logging.Info("evicted battles", logging.Fields{constants.LogFieldCount: len(ids), constants.LogFieldBattleIDs: ids})
				}
			}
		}
	}()
}
