package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/riverai/models"
)

type SectorRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSectorRepository(db *gorm.DB, logger *zap.Logger) *SectorRepository {
	return &SectorRepository{db: db, logger: logger}
}

func (r *SectorRepository) List(ctx context.Context) ([]models.Sector, error) {
	var out []models.Sector
	if err := r.db.WithContext(ctx).Order("sector_name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	return out, nil
}

func (r *SectorRepository) Get(ctx context.Context, id uuid.UUID) (*models.Sector, error) {
	var s models.Sector
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Counts returns sector_name -> count as stored.
func (r *SectorRepository) Counts(ctx context.Context) (map[string]int64, error) {
	sectors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(sectors))
	for _, s := range sectors {
		out[s.SectorName] = s.Count
	}
	return out, nil
}

type sectorTally struct {
	IndustryType string
	Total        int64
}

// Reconcile recomputes every sector count from the industries table and
// returns the corrected counts.
func (r *SectorRepository) Reconcile(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tallies []sectorTally
		if err := tx.Model(&models.Industry{}).
			Select("industry_type, count(*) AS total").
			Group("industry_type").
			Scan(&tallies).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Sector{}).Where("1 = 1").Update("count", 0).Error; err != nil {
			return err
		}
		for _, t := range tallies {
			if err := adjustSectorCount(tx, t.IndustryType, t.Total); err != nil {
				return err
			}
			out[t.IndustryType] = t.Total
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile sector counts: %w", err)
	}
	r.logger.Info("Sector counts reconciled", zap.Int("sectors", len(out)))
	return out, nil
}
