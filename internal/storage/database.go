package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/game"
	"github.com/ericogr/chimera-arena/internal/logging"
)

// OpenAndMigrate opens the sqlite database, migrates the schema and syncs
// the card and creature catalog from config. The config file is the source
// of truth for reference data: rows are upserted on every start.
func OpenAndMigrate(dataSourceName string, cards []game.Card, creatures []game.CreatureTemplate) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&game.CardRecord{}, &game.CreatureTemplate{}, &game.BattleRecord{}, &game.PlayerStats{})
	if err != nil {
		return nil, err
	}
	if err := seedCatalog(db, cards, creatures); err != nil {
		return nil, err
	}
	return db, nil
}

func seedCatalog(db *gorm.DB, cards []game.Card, creatures []game.CreatureTemplate) error {
	if len(cards) > 0 {
		records := make([]game.CardRecord, 0, len(cards))
		for _, c := range cards {
			records = append(records, game.CardRecordFrom(c))
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "element", "energy_cost", "attack_modifier", "defense_modifier", "effects", "updated_at"}),
		}).Create(&records).Error
		if err != nil {
			return fmt.Errorf("seed cards: %w", err)
		}
	}
	if len(creatures) > 0 {
		rows := append([]game.CreatureTemplate(nil), creatures...)
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "elements", "hit_points", "attack", "defense", "speed", "energy", "deck", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("seed creatures: %w", err)
		}
	}
	logging.Info("catalog synced", logging.Fields{constants.LogFieldSource: "config", "cards": len(cards), "creatures": len(creatures)})
	return nil
}
