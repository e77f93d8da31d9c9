package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/metrics"
	"p9e.in/riverai/pkg/store"
	"p9e.in/riverai/pkg/threshold"
)

type MonitorConfig struct {
	Interval       time.Duration
	NotifyOnBreach bool
}

// Monitor periodically evaluates the latest sample of every industry and
// records new alerts.
type Monitor struct {
	cfg        MonitorConfig
	industries IndustryStore
	samples    SampleStore
	recorder   *Recorder
	warner     *Warner
	lease      Lease
	logger     *zap.Logger
	now        func() time.Time
}

// NewMonitor builds a monitor. warner may be nil when NotifyOnBreach is off
// and lease may be nil for a single replica.
func NewMonitor(cfg MonitorConfig, industries IndustryStore, samples SampleStore, recorder *Recorder, warner *Warner, lease Lease, logger *zap.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if lease == nil {
		lease = NoopLease{}
	}
	return &Monitor{
		cfg:        cfg,
		industries: industries,
		samples:    samples,
		recorder:   recorder,
		warner:     warner,
		lease:      lease,
		logger:     logger,
		now:        time.Now,
	}
}

// Run checks once immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Breach monitor started", zap.Duration("interval", m.cfg.Interval))

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Breach monitor stopped")
			return nil
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick runs one pass over all industries. Failures are logged per industry
// and retried on the next tick.
func (m *Monitor) Tick(ctx context.Context) {
	metrics.MonitorTicks.Inc()

	industries, err := m.industries.List(ctx)
	if err != nil {
		m.logger.Error("Failed to list industries", zap.Error(err))
		return
	}
	// one lease per industry and interval slot
	slot := m.now().Truncate(m.cfg.Interval).Unix()
	for i := range industries {
		if ctx.Err() != nil {
			return
		}
		ind := &industries[i]
		key := fmt.Sprintf("%s:%d", ind.ID, slot)
		ok, err := m.lease.Acquire(ctx, key, m.cfg.Interval)
		if err != nil {
			m.logger.Warn("Lease unavailable, checking anyway",
				zap.String("industry_code", ind.IndustryCode), zap.Error(err))
		} else if !ok {
			continue
		}
		if _, err := m.check(ctx, ind); err != nil {
			m.logger.Error("Industry check failed",
				zap.String("industry_code", ind.IndustryCode),
				zap.Error(err),
			)
		}
	}
}

// CheckIndustry runs one check on demand and returns the alerts it inserted.
func (m *Monitor) CheckIndustry(ctx context.Context, industryID uuid.UUID) ([]models.Alert, error) {
	ind, err := m.industries.Get(ctx, industryID)
	if err != nil {
		return nil, err
	}
	return m.check(ctx, ind)
}

func (m *Monitor) check(ctx context.Context, ind *models.Industry) ([]models.Alert, error) {
	start := time.Now()
	defer func() { metrics.MonitorCheckDuration.Observe(time.Since(start).Seconds()) }()

	sample, err := m.samples.Latest(ctx, ind.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest sample: %w", err)
	}

	breaches := threshold.Evaluate(sample)
	if len(breaches) == 0 {
		return nil, nil
	}

	var (
		inserted []models.Alert
		fresh    []threshold.Breach
		firstErr error
	)
	for _, b := range breaches {
		a, err := m.recorder.Record(ctx, ind, b, sample.MeasuredAt)
		if err != nil {
			m.logger.Error("Failed to record alert",
				zap.String("industry_code", ind.IndustryCode),
				zap.String("parameter", b.AlertParameter),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if a != nil {
			inserted = append(inserted, *a)
			fresh = append(fresh, b)
		}
	}

	if m.cfg.NotifyOnBreach && m.warner != nil && len(fresh) > 0 {
		if err := m.warner.NotifyBreaches(ctx, ind, fresh); err != nil {
			m.logger.Warn("Breach notification failed",
				zap.String("industry_code", ind.IndustryCode),
				zap.Error(err),
			)
		}
	}
	return inserted, firstErr
}
