package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"p9e.in/riverai/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisLease) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisLease(client)
}

func TestRedisLeaseOncePerKey(t *testing.T) {
	mr, lease := setupTestRedis(t)
	ctx := context.Background()

	ok, err := lease.Acquire(ctx, "ind-1:100", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lease.Acquire(ctx, "ind-1:100", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lease.Acquire(ctx, "ind-1:160", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, mr.Exists("riverai:monitor:ind-1:100"))
	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists("riverai:monitor:ind-1:100"))
}

func TestMonitorWithRedisLeaseChecksEveryTick(t *testing.T) {
	_, lease := setupTestRedis(t)
	f := newFixture()
	m := NewMonitor(MonitorConfig{Interval: time.Minute}, f.industries, f.samples,
		NewRecorder(f.alerts, zap.NewNop()), nil, lease, zap.NewNop())

	// ticks land a little after the slot start, one interval apart
	start := time.Date(2025, 3, 1, 10, 0, 3, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		m.now = func() time.Time { return at }
		f.setLatest(models.WaterQualitySample{MeasuredAt: at, PH: "9.4"})
		m.Tick(context.Background())
	}
	assert.Equal(t, 4, f.alerts.len())
}

func TestMonitorRedisLeaseSharedAcrossReplicas(t *testing.T) {
	_, lease := setupTestRedis(t)
	f := newFixture()
	at := time.Date(2025, 3, 1, 10, 0, 3, 0, time.UTC)
	f.setLatest(models.WaterQualitySample{MeasuredAt: at, PH: "9.4"})

	var checked []int
	for replica := 0; replica < 2; replica++ {
		alerts := newMemAlerts()
		m := NewMonitor(MonitorConfig{Interval: time.Minute}, f.industries, f.samples,
			NewRecorder(alerts, zap.NewNop()), nil, lease, zap.NewNop())
		m.now = func() time.Time { return at.Add(time.Duration(replica) * time.Second) }
		m.Tick(context.Background())
		checked = append(checked, alerts.len())
	}
	assert.Equal(t, []int{1, 0}, checked)
}
