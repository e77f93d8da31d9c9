package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p9e.in/riverai/models"
)

type IndustryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewIndustryRepository(db *gorm.DB, logger *zap.Logger) *IndustryRepository {
	return &IndustryRepository{db: db, logger: logger}
}

// Create inserts the industry and bumps its sector count in one transaction.
// A sector that does not exist yet is created with count 1.
func (r *IndustryRepository) Create(ctx context.Context, ind *models.Industry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ind).Error; err != nil {
			return translate(err)
		}
		return adjustSectorCount(tx, ind.IndustryType, 1)
	})
	if err != nil {
		return fmt.Errorf("create industry %q: %w", ind.IndustryCode, err)
	}
	r.logger.Info("Industry created",
		zap.String("industry_id", ind.ID.String()),
		zap.String("industry_code", ind.IndustryCode),
		zap.String("industry_type", ind.IndustryType),
	)
	return nil
}

// Update saves every column of ind. When the industry moves to another
// sector both counts are adjusted in the same transaction.
func (r *IndustryRepository) Update(ctx context.Context, ind *models.Industry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev models.Industry
		if err := tx.Select("id", "industry_type", "created_at").First(&prev, "id = ?", ind.ID).Error; err != nil {
			return translate(err)
		}
		ind.CreatedAt = prev.CreatedAt
		if err := tx.Save(ind).Error; err != nil {
			return translate(err)
		}
		if prev.IndustryType == ind.IndustryType {
			return nil
		}
		if err := adjustSectorCount(tx, prev.IndustryType, -1); err != nil {
			return err
		}
		return adjustSectorCount(tx, ind.IndustryType, 1)
	})
	if err != nil {
		return fmt.Errorf("update industry %s: %w", ind.ID, err)
	}
	return nil
}

func adjustSectorCount(tx *gorm.DB, sectorName string, delta int64) error {
	if sectorName == "" {
		return nil
	}
	if delta < 0 {
		return tx.Model(&models.Sector{}).
			Where("sector_name = ? AND count > 0", sectorName).
			Update("count", gorm.Expr("count - ?", -delta)).Error
	}
	sector := models.Sector{SectorName: sectorName, Count: delta}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sector_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("sectors.count + ?", delta)}),
	}).Create(&sector).Error
}

func (r *IndustryRepository) Get(ctx context.Context, id uuid.UUID) (*models.Industry, error) {
	var ind models.Industry
	if err := r.db.WithContext(ctx).First(&ind, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ind, nil
}

func (r *IndustryRepository) GetByCode(ctx context.Context, code string) (*models.Industry, error) {
	var ind models.Industry
	if err := r.db.WithContext(ctx).Where("industry_code = ?", code).First(&ind).Error; err != nil {
		return nil, translate(err)
	}
	return &ind, nil
}

func (r *IndustryRepository) List(ctx context.Context) ([]models.Industry, error) {
	var out []models.Industry
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	return out, nil
}

func (r *IndustryRepository) ListBySector(ctx context.Context, sectorName string) ([]models.Industry, error) {
	var out []models.Industry
	if err := r.db.WithContext(ctx).Where("industry_type = ?", sectorName).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list industries for sector %q: %w", sectorName, err)
	}
	return out, nil
}

func (r *IndustryRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Industry, error) {
	var out []models.Industry
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list industries for owner: %w", err)
	}
	return out, nil
}
