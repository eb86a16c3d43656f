package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Indexes gorm tags cannot express. Partial indexes are supported by both
// PostgreSQL and SQLite.
var extraIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_performer_attachment
		ON reservations (user_id, performer_id)
		WHERE performer_id IS NOT NULL AND status <> 'cancelled'`,
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	models := []interface{}{
		&userModel{},
		&hallModel{},
		&performerModel{},
		&reservationModel{},
		&reservationSlotModel{},
		&priceOverrideModel{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}

	for _, stmt := range extraIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
