package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/threshold"
)

var measured = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func phBreach(t *testing.T) threshold.Breach {
	t.Helper()
	bs := threshold.Evaluate(&models.WaterQualitySample{PH: "9.2"})
	require.Len(t, bs, 1)
	return bs[0]
}

func TestRecordIfNewInsertsOnce(t *testing.T) {
	f := newFixture()
	r := NewRecorder(f.alerts, zap.NewNop())
	ctx := context.Background()
	b := phBreach(t)

	inserted, err := r.RecordIfNew(ctx, &f.industry, b, measured)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = r.RecordIfNew(ctx, &f.industry, b, measured)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 1, f.alerts.len())

	row := f.alerts.rows[alertKey("TX-001", "pH Threshold Crossed", measured)]
	assert.Equal(t, 9.2, row.CurrentValue)
	assert.Equal(t, 8.5, row.ThresholdValue)
	assert.Equal(t, "Blue Dye Works", row.IndustryName)
	assert.Equal(t, "Textile", row.IndustryType)
	assert.Equal(t, measured, row.WaterQualityMeasuredAt)
}

func TestRecordIfNewConflictIsNotAnError(t *testing.T) {
	f := newFixture()
	f.alerts.existsLies = true
	r := NewRecorder(f.alerts, zap.NewNop())
	ctx := context.Background()
	b := phBreach(t)

	first, err := r.RecordIfNew(ctx, &f.industry, b, measured)
	require.NoError(t, err)
	second, err := r.RecordIfNew(ctx, &f.industry, b, measured)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 1, f.alerts.len())
}

func TestRecordIfNewDistinctSamples(t *testing.T) {
	f := newFixture()
	r := NewRecorder(f.alerts, zap.NewNop())
	ctx := context.Background()
	b := phBreach(t)

	for _, at := range []time.Time{measured, measured.Add(time.Minute)} {
		inserted, err := r.RecordIfNew(ctx, &f.industry, b, at)
		require.NoError(t, err)
		assert.True(t, inserted)
	}
	assert.Equal(t, 2, f.alerts.len())
}

func TestRecordIfNewStoreError(t *testing.T) {
	f := newFixture()
	f.alerts.err = errors.New("connection refused")
	r := NewRecorder(f.alerts, zap.NewNop())

	inserted, err := r.RecordIfNew(context.Background(), &f.industry, phBreach(t), measured)
	assert.Error(t, err)
	assert.False(t, inserted)
}

func newWarner(f *fixture) *Warner {
	return NewWarner(f.industries, f.users, f.samples, f.sender, zap.NewNop())
}

func TestSendWarningNoSamples(t *testing.T) {
	f := newFixture()
	res, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, ReasonNoSamples, res.Reason)
	assert.Empty(t, f.sender.sent)
}

func TestSendWarningWithinThresholds(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "7.1", Turbidity: "2", DissolvedOxygen: "6"})

	res, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, ReasonWithinThresholds, res.Reason)
	assert.Empty(t, f.sender.sent)
}

func TestSendWarningComposesTemplate(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "9.2", Turbidity: "7", DissolvedOxygen: "N/A"})

	res, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Len(t, res.Breaches, 2)
	require.Len(t, f.sender.sent, 1)

	msg := f.sender.sent[0]
	assert.Equal(t, "owner@bluedye.in", msg.To)
	assert.Equal(t, "Urgent: Water Quality Alert for Blue Dye Works", msg.Subject)
	assert.Equal(t, "Dear Blue Dye Works Team,\n\n"+
		"Our monitoring system, River AI, has detected the following water quality parameter(s) exceeding safe thresholds:\n\n"+
		"• pH Level – Safe Range: 6.5–8.5, Detected: 9.2\n"+
		"• Turbidity – Safe Limit: <5 NTU, Detected: 7\n\n"+
		"This may indicate potential contamination risks. Kindly review the details and take corrective actions as necessary.\n\n"+
		"Best Regards,\nRiver AI Monitoring Team", msg.Body)
	require.NotNil(t, msg.IndustryID)
	assert.Equal(t, f.industry.ID, *msg.IndustryID)
}

func TestSendWarningMissingContact(t *testing.T) {
	t.Run("unknown industry", func(t *testing.T) {
		f := newFixture()
		_, err := newWarner(f).SendWarning(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrMissingContact)
	})

	t.Run("no owner", func(t *testing.T) {
		f := newFixture()
		f.industries.list[0].OwnerID = nil
		f.setLatest(models.WaterQualitySample{PH: "9.9"})
		_, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
		assert.ErrorIs(t, err, ErrMissingContact)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("owner without email", func(t *testing.T) {
		f := newFixture()
		f.users[f.owner.ID] = models.User{ID: f.owner.ID}
		_, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
		assert.ErrorIs(t, err, ErrMissingContact)
	})
}

func TestSendWarningSenderFailure(t *testing.T) {
	f := newFixture()
	f.sender.err = errors.New("smtp timeout")
	f.setLatest(models.WaterQualitySample{PH: "4"})

	res, err := newWarner(f).SendWarning(context.Background(), f.industry.ID)
	require.Error(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, "owner@bluedye.in", res.Recipient)
}

func newMonitor(f *fixture, notifyOnBreach bool, lease Lease) *Monitor {
	return NewMonitor(
		MonitorConfig{Interval: time.Hour, NotifyOnBreach: notifyOnBreach},
		f.industries, f.samples,
		NewRecorder(f.alerts, zap.NewNop()),
		newWarner(f),
		lease,
		zap.NewNop(),
	)
}

func TestMonitorTickRecordsFullRuleTable(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "6.0", Turbidity: "5", DissolvedOxygen: "3"})
	m := newMonitor(f, true, nil)

	m.Tick(context.Background())
	assert.Equal(t, 3, f.alerts.len())
	require.Len(t, f.sender.sent, 1)

	// Same sample on the next tick: nothing new, nobody emailed again.
	m.Tick(context.Background())
	assert.Equal(t, 3, f.alerts.len())
	assert.Len(t, f.sender.sent, 1)
}

func TestMonitorTickWithoutNotify(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "9"})
	newMonitor(f, false, nil).Tick(context.Background())

	assert.Equal(t, 1, f.alerts.len())
	assert.Empty(t, f.sender.sent)
}

func TestMonitorTickHonoursLease(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "9"})
	newMonitor(f, true, denyLease{}).Tick(context.Background())

	assert.Equal(t, 0, f.alerts.len())
}

func TestMonitorTickSurvivesStoreErrors(t *testing.T) {
	f := newFixture()
	f.samples.err = errors.New("read timeout")
	m := newMonitor(f, true, nil)
	assert.NotPanics(t, func() { m.Tick(context.Background()) })

	f.industries.err = errors.New("read timeout")
	assert.NotPanics(t, func() { m.Tick(context.Background()) })
	assert.Equal(t, 0, f.alerts.len())
}

func TestCheckIndustryReturnsInserted(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, DissolvedOxygen: "2.5"})
	m := newMonitor(f, false, nil)

	alerts, err := m.CheckIndustry(context.Background(), f.industry.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Dissolved Oxygen Threshold Crossed", alerts[0].Parameter)
	assert.Equal(t, 5.0, alerts[0].ThresholdValue)

	alerts, err = m.CheckIndustry(context.Background(), f.industry.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	f := newFixture()
	f.setLatest(models.WaterQualitySample{MeasuredAt: measured, PH: "9"})
	m := newMonitor(f, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return f.alerts.len() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
