package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p9e.in/riverai/models"
)

type AlertRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAlertRepository(db *gorm.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

// Exists reports whether an alert is already stored for the dedup key.
func (r *AlertRepository) Exists(ctx context.Context, industryCode, parameter string, measuredAt time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("industry_code = ? AND parameter = ? AND water_quality_measured_at = ?", industryCode, parameter, measuredAt).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check alert: %w", err)
	}
	return n > 0, nil
}

// InsertIfAbsent inserts the alert unless idx_alerts_dedup already holds the
// key. inserted is false when the row already existed.
func (r *AlertRepository) InsertIfAbsent(ctx context.Context, a *models.Alert) (inserted bool, err error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "industry_code"},
			{Name: "parameter"},
			{Name: "water_quality_measured_at"},
		},
		DoNothing: true,
	}).Create(a)
	if res.Error != nil {
		return false, fmt.Errorf("insert alert: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AlertFilter narrows List. Zero values mean no restriction.
type AlertFilter struct {
	Since        time.Time
	Until        time.Time
	Sector       string
	IndustryCode string
	IndustryIDs  []string
	Limit        int
}

// List returns alerts newest first.
func (r *AlertRepository) List(ctx context.Context, f AlertFilter) ([]models.Alert, error) {
	q := r.db.WithContext(ctx)
	if !f.Since.IsZero() {
		q = q.Where("alert_datetime >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("alert_datetime < ?", f.Until)
	}
	if f.Sector != "" {
		q = q.Where("industry_type = ?", f.Sector)
	}
	if f.IndustryCode != "" {
		q = q.Where("industry_code = ?", f.IndustryCode)
	}
	if len(f.IndustryIDs) > 0 {
		q = q.Where("industry_id IN ?", f.IndustryIDs)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []models.Alert
	if err := q.Order("alert_datetime DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return out, nil
}
