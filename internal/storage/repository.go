package storage

import (
	"errors"

	"github.com/ericogr/chimera-arena/internal/game"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence boundary: immutable reference data (cards,
// creature templates) plus battle history and per-address stats.
type Repository interface {
	GetCards() ([]game.Card, error)
	GetCardByID(id string) (*game.Card, error)
	GetCreatures() ([]game.CreatureTemplate, error)
	GetCreatureByID(id string) (*game.CreatureTemplate, error)

	// SaveBattleRecord stores the history entry of a finished battle. Saving
	// the same battle twice updates the existing row.
	SaveBattleRecord(r *game.BattleRecord) error
	// ListBattlesByParticipant returns the most recent battles the address
	// took part in, newest first.
	ListBattlesByParticipant(address string, limit int) ([]game.BattleRecord, error)

	UpdateStatsOnBattleEnd(b *game.Battle) error
	GetStatsByAddress(address string) (*game.PlayerStats, error)
	// Leaderboard
	GetTopPlayers(limit int) ([]game.PlayerStats, error)
}
