package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stwalsh4118/ciftlik/internal/models"
)

// gormConfig is shared by both drivers. Documents reference each other by id
// only, so no foreign key constraints are created.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

// Migrate creates or upgrades every table.
func (db *Database) Migrate(ctx context.Context) error {
	if err := db.Gorm.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
