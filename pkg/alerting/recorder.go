package alerting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/metrics"
	"p9e.in/riverai/pkg/threshold"
)

// Recorder stores at most one alert per (industry_code, parameter,
// water_quality_measured_at). The existence read skips the common case and
// the unique index settles concurrent inserts.
type Recorder struct {
	alerts AlertStore
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(alerts AlertStore, logger *zap.Logger) *Recorder {
	return &Recorder{alerts: alerts, logger: logger, now: time.Now}
}

// RecordIfNew reports whether a new alert row was inserted.
func (r *Recorder) RecordIfNew(ctx context.Context, ind *models.Industry, b threshold.Breach, measuredAt time.Time) (bool, error) {
	a, err := r.Record(ctx, ind, b, measuredAt)
	return a != nil, err
}

// Record is RecordIfNew returning the inserted alert, or nil when the alert
// was already recorded.
func (r *Recorder) Record(ctx context.Context, ind *models.Industry, b threshold.Breach, measuredAt time.Time) (*models.Alert, error) {
	exists, err := r.alerts.Exists(ctx, ind.IndustryCode, b.AlertParameter, measuredAt)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.AlertsDuplicate.Inc()
		return nil, nil
	}

	a := &models.Alert{
		IndustryID:             ind.ID,
		IndustryCode:           ind.IndustryCode,
		IndustryName:           ind.Name,
		IndustryType:           ind.IndustryType,
		Parameter:              b.AlertParameter,
		CurrentValue:           b.DetectedValue,
		ThresholdValue:         b.ThresholdValue,
		AlertDatetime:          r.now().UTC(),
		WaterQualityMeasuredAt: measuredAt,
	}
	inserted, err := r.alerts.InsertIfAbsent(ctx, a)
	if err != nil {
		return nil, err
	}
	if !inserted {
		metrics.AlertsDuplicate.Inc()
		return nil, nil
	}

	metrics.AlertsRecorded.WithLabelValues(a.Parameter).Inc()
	r.logger.Info("Alert recorded",
		zap.String("industry_code", ind.IndustryCode),
		zap.String("parameter", a.Parameter),
		zap.Float64("current_value", a.CurrentValue),
		zap.Float64("threshold_value", a.ThresholdValue),
		zap.Time("measured_at", measuredAt),
	)
	return a, nil
}
