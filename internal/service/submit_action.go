package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/engine"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
	"github.com/ericogr/chimera-arena/internal/notify"
)

// SubmitResult is the outcome of a move submission.
type SubmitResult struct {
	// Status is "waiting" until both sides submitted, then "resolved".
	Status     string            `json:"status"`
	Battle     *game.Battle      `json:"battle"`
	Round      *game.RoundResult `json:"round,omitempty"`
	Eliminated game.Elimination  `json:"eliminated,omitempty"`
}

// SubmitMoves stores a side's moves for the current round and resolves the
// round once both sides have submitted. Storage and resolution run under
// the battle's lock, so two racing submissions trigger exactly one
// resolution. A rejected submission leaves the battle untouched.
func (s *BattleService) SubmitMoves(ctx context.Context, battleID, address string, moves []game.BattleAction) (*SubmitResult, error) {
	if err := s.catalog.Available(); err != nil {
		return nil, err
	}
	var res *game.RoundResult
	b, err := s.store.Update(battleID, func(b *game.Battle) error {
		if b.Status != game.StatusActive || b.Phase != game.PhaseAwaitingMoves {
			return ErrNotActive
		}
		side, err := sideOf(b, address)
		if err != nil {
			return err
		}
		if b.Sides[side].Submitted {
			return ErrConflict
		}
		if err := engine.ValidateSubmission(b, side, moves, s.catalog); err != nil {
			return err
		}
		b.Sides[side].Pending = append([]game.BattleAction(nil), moves...)
		b.Sides[side].Submitted = true
		b.Sides[side].MissedRounds = 0
		b.UpdatedAt = s.now()

		if b.Sides[0].Submitted && b.Sides[1].Submitted {
			res = s.resolve(ctx, b)
			s.enqueue(ctx, b, notify.KindRoundResolved)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if res == nil {
		return &SubmitResult{Status: constants.SubmitStatusWaiting, Battle: b}, nil
	}
	s.afterCommit(b)
	return &SubmitResult{Status: constants.SubmitStatusResolved, Battle: b, Round: b.LastRound, Eliminated: res.Eliminated}, nil
}

// resolve runs the round on the working copy and opens the next one.
func (s *BattleService) resolve(ctx context.Context, b *game.Battle) *game.RoundResult {
	_, span := s.tracer.Start(ctx, "battle.resolve_round")
	defer span.End()
	span.SetAttributes(
		attribute.String(constants.LogFieldBattleID, b.ID),
		attribute.Int(constants.LogFieldRound, b.Round),
	)

	now := s.now()
	res := engine.ResolveRound(b, s.catalog, now)
	span.SetAttributes(
		attribute.Int("events", len(res.Events)),
		attribute.String("eliminated", string(res.Eliminated)),
	)
	if !res.Clean() {
		span.SetStatus(codes.Error, "resolution anomaly")
		for _, a := range res.Anomalies {
			logging.Warn("round resolved with anomaly", logging.Fields{
				constants.LogFieldBattleID: b.ID,
				constants.LogFieldRound:    res.Round,
				constants.LogFieldSide:     a.Side,
				constants.LogFieldReason:   a.Reason,
			})
		}
	}
	s.openRound(b, now)
	return res
}

// Forfeit ends the battle in favor of the caller's opponent.
func (s *BattleService) Forfeit(ctx context.Context, battleID, address string) (*game.Battle, error) {
	b, err := s.store.Update(battleID, func(b *game.Battle) error {
		if b.Status != game.StatusActive {
			return ErrNotActive
		}
		side, err := sideOf(b, address)
		if err != nil {
			return err
		}
		winner := 1 - side
		b.Finish(b.Sides[winner].Address, false, game.EndForfeit, s.now())
		b.Message = b.Sides[side].Address + " forfeited the battle"
		b.UpdatedAt = b.FinishedAt
		s.enqueue(ctx, b)
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	s.afterCommit(b)
	return b, nil
}
