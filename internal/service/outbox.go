package service

import (
	"context"
	"sync"
	"time"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
)

const publishTimeout = 15 * time.Second

type event struct {
	ctx    context.Context
	kind   notify.Kind
	battle *game.Battle
}

// outbox keeps one FIFO queue per battle. A single drainer per battle
// delivers its events, so subscribers see them in commit order.
type outbox struct {
	mu     sync.Mutex
	queues map[string][]event
}

// enqueue queues the events of a change to b. It must be called while the
// battle's lock is held, as the last step of a store.Update callback (or
// right after Create), so queue order matches commit order. A finished
// battle also gets a finished event.
func (s *BattleService) enqueue(ctx context.Context, b *game.Battle, kinds ...notify.Kind) {
	if b.Status == game.StatusFinished {
		kinds = append(kinds, notify.KindFinished)
	}
	if len(kinds) == 0 {
		return
	}
	pubCtx := context.WithoutCancel(ctx)
	snap := b.Clone()

	s.outbox.mu.Lock()
	defer s.outbox.mu.Unlock()
	q, draining := s.outbox.queues[b.ID]
	for _, k := range kinds {
		q = append(q, event{ctx: pubCtx, kind: k, battle: snap})
	}
	s.outbox.queues[b.ID] = q
	if draining {
		return
	}
	s.wg.Add(1)
	go s.drain(b.ID)
}

// drain publishes the battle's queued events one at a time until the queue
// is empty.
func (s *BattleService) drain(battleID string) {
	defer s.wg.Done()
	for {
		s.outbox.mu.Lock()
		q := s.outbox.queues[battleID]
		if len(q) == 0 {
			delete(s.outbox.queues, battleID)
			s.outbox.mu.Unlock()
			return
		}
		s.outbox.queues[battleID] = q[:0:0]
		s.outbox.mu.Unlock()

		for _, ev := range q {
			ctx, cancel := context.WithTimeout(ev.ctx, publishTimeout)
			err := s.pub.Publish(ctx, battleID, ev.kind, ev.battle)
			cancel()
			if err != nil {
				logging.Error("failed to publish battle event", err, logging.Fields{constants.LogFieldBattleID: battleID, constants.LogFieldKind: string(ev.kind), constants.LogFieldRound: ev.battle.Round})
			}
		}
	}
}
