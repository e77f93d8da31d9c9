package alerting

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lease lets one replica check an industry per interval slot. Keys carry
// the slot, so the ttl only bounds how long a stale key lingers.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NoopLease always grants. Used when Redis is not configured.
type NoopLease struct{}

func (NoopLease) Acquire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

// RedisLease takes SET NX PX on riverai:monitor:<industry>:<slot>.
type RedisLease struct {
	client *redis.Client
	owner  string
}

func NewRedisLease(client *redis.Client) *RedisLease {
	owner, _ := os.Hostname()
	if owner == "" {
		owner = "riverai"
	}
	return &RedisLease{client: client, owner: owner}
}

func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "riverai:monitor:"+key, l.owner, ttl).Result()
}
