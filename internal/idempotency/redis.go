package idempotency

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces claim keys in a shared redis.
const keyPrefix = "hl:idemp:"

// RedisStore is the distributed claim backend. When configured it is
// authoritative: an unreachable redis makes Claim return false, because
// skipping a signal is cheaper than risking a duplicate order. It is
// the only backend that is safe across multiple hosts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the redis at url (redis:// form) and
// verifies the connection.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Claim performs an atomic SET NX EX: true exactly once per key per
// TTL window, system-wide. Errors and timeouts count as "claim
// failed", never as "claimed by default".
func (s *RedisStore) Claim(ctx context.Context, signalID string) bool {
	ok, err := s.client.SetNX(ctx, keyPrefix+signalID, "1", s.ttl).Result()
	if err != nil {
		slog.Error("redis claim failed, skipping signal",
			slog.String("signal_id", signalID),
			slog.Any("error", err))
		return false
	}
	if !ok {
		slog.Info("skip duplicate signal (redis)", slog.String("signal_id", signalID))
	}
	return ok
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
