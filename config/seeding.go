package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p9e.in/riverai/models"
)

// RunAllSeeding creates the default sectors and, when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, a verified admin account. Safe to run repeatedly.
func RunAllSeeding(db *gorm.DB, cfg *Config, logger *zap.Logger) error {
	if err := SeedSectors(db); err != nil {
		return fmt.Errorf("seed sectors: %w", err)
	}
	logger.Info("Sectors seeded", zap.Int("count", len(models.DefaultSectors)))

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	created, err := SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("Admin user created", zap.String("email", cfg.AdminEmail))
	}
	return nil
}

// SeedSectors inserts any missing default sector with count 0.
func SeedSectors(db *gorm.DB) error {
	sectors := make([]models.Sector, 0, len(models.DefaultSectors))
	for _, name := range models.DefaultSectors {
		sectors = append(sectors, models.Sector{SectorName: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sector_name"}},
		DoNothing: true,
	}).Create(&sectors).Error
}

// SeedAdmin creates the admin account unless the email is already taken.
func SeedAdmin(db *gorm.DB, email, password string) (bool, error) {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Verification: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
