package store

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"qr-request-manager/models"
)

// Migrate runs all schema migrations in order. Applied migrations are
// recorded by id, so running this at every startup is a no-op after the
// first time. New migrations append to the list; they must never be
// reordered.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202508200001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.Setting{},
					&models.Request{},
					&models.Submission{},
					&models.RewardEntry{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"reward_entries", "submissions", "requests", "settings",
				)
			},
		},
		{
			ID: "202508220002_request_close_at",
			Migrate: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&models.Request{}, "close_at") {
					return nil
				}
				return tx.Migrator().AddColumn(&models.Request{}, "CloseAt")
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&models.Request{}, "CloseAt")
			},
		},
	})
	return m.Migrate()
}
