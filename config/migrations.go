package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/riverai/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "01032025_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Sector{}, &models.Industry{},
					&models.WaterQualitySample{}, &models.Alert{}, &models.SentEmail{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("email_sent", "alerts", "water_quality", "industries", "sectors", "users")
			},
		},
		{
			// Counts may have drifted before inserts and increments shared a transaction.
			ID: "15032025_reconcile_sector_counts",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`UPDATE sectors SET count = (
					SELECT count(*) FROM industries WHERE industries.industry_type = sectors.sector_name
				)`).Error
			},
		},
	})
	return m.Migrate()
}
