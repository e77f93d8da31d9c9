package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/riverai/models"
)

type SampleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSampleRepository(db *gorm.DB, logger *zap.Logger) *SampleRepository {
	return &SampleRepository{db: db, logger: logger}
}

// SampleFilter narrows ListForIndustry. Zero values mean no restriction.
type SampleFilter struct {
	Kit   models.KitType
	Since time.Time
	Until time.Time
	Limit int
}

func (r *SampleRepository) Create(ctx context.Context, s *models.WaterQualitySample) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create sample: %w", err)
	}
	return nil
}

// Latest returns the most recent sample by measured_at, or ErrNotFound.
func (r *SampleRepository) Latest(ctx context.Context, industryID uuid.UUID) (*models.WaterQualitySample, error) {
	var s models.WaterQualitySample
	err := r.db.WithContext(ctx).
		Where("industry_id = ?", industryID).
		Order("measured_at DESC").
		Limit(1).
		Find(&s).Error
	if err != nil {
		return nil, fmt.Errorf("latest sample: %w", err)
	}
	if s.ID == 0 {
		return nil, ErrNotFound
	}
	return &s, nil
}

// ListForIndustry returns samples ordered by measured_at ascending.
func (r *SampleRepository) ListForIndustry(ctx context.Context, industryID uuid.UUID, f SampleFilter) ([]models.WaterQualitySample, error) {
	q := r.db.WithContext(ctx).Where("industry_id = ?", industryID)
	if f.Kit != "" {
		q = q.Where("LOWER(kit_type) = ?", string(f.Kit))
	}
	if !f.Since.IsZero() {
		q = q.Where("measured_at >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("measured_at < ?", f.Until)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []models.WaterQualitySample
	if err := q.Order("measured_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return out, nil
}
