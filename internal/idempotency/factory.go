package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/sidemix/signals-hyperliquid/internal/infra"
)

// NewFromConfig selects the claim backend once at startup: redis when
// configured, otherwise the local sqlite table. The returned Guard
// adds the process-local fast path on top of either.
func NewFromConfig(ctx context.Context, cfg *infra.Config) (*Guard, error) {
	ttl := time.Duration(cfg.Idempotency.TTLSec) * time.Second

	if url := cfg.Idempotency.RedisURL; url != "" {
		store, err := NewRedisStore(ctx, url, ttl)
		if err != nil {
			return nil, fmt.Errorf("connect idempotency redis: %w", err)
		}
		return NewGuard(store), nil
	}

	store, err := NewSQLiteStore(cfg.Idempotency.DBPath, cfg.Idempotency.LockPath, ttl)
	if err != nil {
		return nil, fmt.Errorf("open idempotency db: %w", err)
	}
	return NewGuard(store), nil
}
