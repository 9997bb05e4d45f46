package service

import (
	"errors"
	"fmt"

	"github.com/ericogr/chimera-arena/internal/dedupe"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/keys"
	"github.com/ericogr/chimera-arena/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ErrStatsNotFound is returned for an address that never finished a battle.
var ErrStatsNotFound = errors.New("no stats for this address")

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// History lists the most recent finished battles of an address.
func (s *BattleService) History(address string, limit int) ([]game.BattleRecord, error) {
	addr := keys.NormalizeAddress(address)
	if addr == "" {
		return nil, invalid("address is required")
	}
	return s.repo.ListBattlesByParticipant(addr, clampLimit(limit))
}

// Stats returns the aggregate results of an address.
func (s *BattleService) Stats(address string) (*game.PlayerStats, error) {
	addr := keys.NormalizeAddress(address)
	if addr == "" {
		return nil, invalid("address is required")
	}
	st, err := s.repo.GetStatsByAddress(addr)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrStatsNotFound
	}
	return st, err
}

// Leaderboard returns the top players by wins. Concurrent requests for the
// same limit share one query.
func (s *BattleService) Leaderboard(limit int) ([]game.PlayerStats, error) {
	limit = clampLimit(limit)
	v, err, _ := dedupe.LeaderboardGroup.Do(fmt.Sprintf("leaderboard:%d", limit), func() (interface{}, error) {
		return s.repo.GetTopPlayers(limit)
	})
	if err != nil {
		return nil, err
	}
	players := v.([]game.PlayerStats)
	return append([]game.PlayerStats(nil), players...), nil
}
