package migrations

import (
	"fmt"
	"log/slog"

	"food_store/internal/models"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Order{},
		&models.OrderItem{},
		&models.OrderEvent{},
		&models.Notification{},
	}
}

// RunMigrations brings the schema up to date. Existing rows are never dropped.
func RunMigrations(db *gorm.DB, log *slog.Logger) error {
	log.Info("migrations_starting")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("migrations_completed")
	return nil
}
