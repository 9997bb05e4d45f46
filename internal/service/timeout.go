package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
)

// errNotDue aborts an Update without committing when the battle no longer
// needs timeout handling.
var errNotDue = errors.New("battle not due")

// HandleTimedOutBattle applies the round deadline to one battle.
// Behavior:
// - both sides didn't submit -> finish the battle as a draw
// - exactly one side didn't submit -> that side passes the round; after
// ForfeitAfterMissedRounds consecutive misses it loses the match
// It reports whether the battle changed.
func (s *BattleService) HandleTimedOutBattle(ctx context.Context, battleID string, now time.Time) (bool, error) {
	b, err := s.store.Update(battleID, func(b *game.Battle) error {
		if b.Status != game.StatusActive || b.RoundDeadline.IsZero() || now.Before(b.RoundDeadline) {
			return errNotDue
		}
		s1, s2 := b.Sides[0].Submitted, b.Sides[1].Submitted
		switch {
		case !s1 && !s2:
			b.Finish("", true, game.EndTimeout, now)
			b.Message = "Battle ended due to inactivity"
			b.UpdatedAt = now
			logging.Info("both sides timed out; finishing battle", logging.Fields{constants.LogFieldBattleID: b.ID, constants.LogFieldRound: b.Round})
			s.enqueue(ctx, b)
			return nil
		case s1 && s2:
			// resolution happens inside the submission; nothing left to do
			return errNotDue
		}

		missing := 0
		if s1 {
			missing = 1
		}
		side := &b.Sides[missing]
		side.MissedRounds++
		fields := logging.Fields{constants.LogFieldBattleID: b.ID, constants.LogFieldSide: missing + 1, "missed": side.MissedRounds}
		if side.MissedRounds >= s.cfg.ForfeitAfterMissedRounds {
			b.Finish(b.Sides[1-missing].Address, false, game.EndTimeout, now)
			b.Message = fmt.Sprintf("%s missed %d rounds and lost the battle", side.Address, side.MissedRounds)
			b.UpdatedAt = now
			logging.Info("side forfeited after repeated timeouts", fields)
			s.enqueue(ctx, b)
			return nil
		}
		logging.Info("auto-submitting pass for inactive side", fields)
		side.Pending = nil
		side.Submitted = true
		b.UpdatedAt = now
		s.resolve(ctx, b)
		s.enqueue(ctx, b, notify.KindRoundResolved)
		return nil
	})
	if errors.Is(err, errNotDue) {
		return false, nil
	}
	if err != nil {
		return false, mapStoreErr(err)
	}
	s.afterCommit(b)
	return true, nil
}

// TimeoutScanner checks every interval for active battles whose round
// deadline has passed, until ctx is cancelled.
func (s *BattleService) TimeoutScanner(ctx context.Context, interval time.Duration) {
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
				s.ScanTimeouts(ctx, s.now())
			}
		}
	}()
}

// ScanTimeouts handles every battle past its deadline at now and returns
// how many were changed.
func (s *BattleService) ScanTimeouts(ctx context.Context, now time.Time) int {
	handled := 0
	for _, b := range s.store.List() {
		if b.Status != game.StatusActive || b.RoundDeadline.IsZero() || now.Before(b.RoundDeadline) {
			continue
		}
		changed, err := s.HandleTimedOutBattle(ctx, b.ID, now)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logging.Error("failed to handle timed out battle", err, logging.Fields{constants.LogFieldBattleID: b.ID})
			}
			continue
		}
		if changed {
			handled++
		}
	}
	return handled
}
