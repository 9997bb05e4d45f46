package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/keys"
)

const defaultListLimit = 20

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *sqliteRepository) GetCards() ([]game.Card, error) {
	var rows []game.CardRecord
	if err := r.db.Order("card_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]game.Card, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToCard())
	}
	return out, nil
}

func (r *sqliteRepository) GetCardByID(id string) (*game.Card, error) {
	var row game.CardRecord
	if err := r.db.Where("card_id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	c := row.ToCard()
	return &c, nil
}

func (r *sqliteRepository) GetCreatures() ([]game.CreatureTemplate, error) {
	var rows []game.CreatureTemplate
	if err := r.db.Order("template_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sqliteRepository) GetCreatureByID(id string) (*game.CreatureTemplate, error) {
	var t game.CreatureTemplate
	if err := r.db.Where("template_id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *sqliteRepository) SaveBattleRecord(rec *game.BattleRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "battle_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"winner", "draw", "end_reason", "rounds", "finished_at", "final_round", "updated_at"}),
	}).Create(rec).Error
}

func (r *sqliteRepository) ListBattlesByParticipant(address string, limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	addr := keys.NormalizeAddress(address)
	var rows []game.BattleRecord
	if err := r.db.Where("side1 = ? OR side2 = ?", addr, addr).
		Order("finished_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// statsDelta computes the counters one finished battle adds to address.
func statsDelta(b *game.Battle, side int) game.PlayerStats {
	d := game.PlayerStats{Address: b.Sides[side].Address, BattlesPlayed: 1}
	switch {
	case b.Draw:
		d.Draws = 1
	case b.Winner == b.Sides[side].Address:
		d.Wins = 1
	case b.Winner != "":
		d.Losses = 1
		if b.EndReason == game.EndForfeit {
			d.Forfeits = 1
		}
	}
	return d
}

// UpdateStatsOnBattleEnd adds the battle outcome to both participants'
// counters. AI sides are not tracked.
func (r *sqliteRepository) UpdateStatsOnBattleEnd(b *game.Battle) error {
	if b.Status != game.StatusFinished {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range b.Sides {
			s := b.Sides[i]
			if s.AI || s.Address == "" || keys.IsAI(s.Address) {
				continue
			}
			d := statsDelta(b, i)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "address"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"battles_played": gorm.Expr("battles_played + ?", d.BattlesPlayed),
					"wins":           gorm.Expr("wins + ?", d.Wins),
					"losses":         gorm.Expr("losses + ?", d.Losses),
					"draws":          gorm.Expr("draws + ?", d.Draws),
					"forfeits":       gorm.Expr("forfeits + ?", d.Forfeits),
					"updated_at":     b.FinishedAt,
				}),
			}).Create(&d).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetStatsByAddress returns zeroed stats for unknown addresses.
func (r *sqliteRepository) GetStatsByAddress(address string) (*game.PlayerStats, error) {
	addr := keys.NormalizeAddress(address)
	var ps game.PlayerStats
	if err := r.db.Where("address = ?", addr).First(&ps).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &game.PlayerStats{Address: addr}, nil
		}
		return nil, err
	}
	return &ps, nil
}

// GetTopPlayers returns top N players ordered by Wins desc, then BattlesPlayed asc
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.PlayerStats
	if err := r.db.Model(&game.PlayerStats{}).
		Order("wins DESC").
		Order("battles_played ASC").
		Order("address ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
