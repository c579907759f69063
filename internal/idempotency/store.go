// Package idempotency guarantees that one logical signal produces at
// most one order submission, across process restarts and across
// concurrently running instances sharing the same account.
package idempotency

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the cross-process "claim once" primitive. Claim returns
// true only for the first successful claim of signalID within the TTL
// window; false means another claim already won and the signal must be
// skipped. Implementations must be safe under concurrent calls from
// multiple processes.
type Store interface {
	Claim(ctx context.Context, signalID string) bool
	Close() error
}

// Guard fronts a backend store with a process-local seen set. The set
// is a fast-path short-circuit for redelivery within one process, not
// a source of truth; it is only populated after a backend claim
// succeeds.
type Guard struct {
	backend Store // nil in dry-run tests; process-local dedupe only

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewGuard wraps backend. backend may be nil, leaving only the
// process-local set.
func NewGuard(backend Store) *Guard {
	return &Guard{
		backend: backend,
		seen:    make(map[string]struct{}),
	}
}

// Claim claims signalID. An empty ID cannot be deduplicated and is
// always allowed through.
func (g *Guard) Claim(ctx context.Context, signalID string) bool {
	if signalID == "" {
		return true
	}

	g.mu.Lock()
	if _, dup := g.seen[signalID]; dup {
		g.mu.Unlock()
		slog.Info("skip duplicate signal (process)", slog.String("signal_id", signalID))
		return false
	}
	if g.backend == nil {
		// No backend to arbitrate, so check and insert must be one
		// critical section or two concurrent claimers could both win.
		g.seen[signalID] = struct{}{}
		g.mu.Unlock()
		return true
	}
	g.mu.Unlock()

	// The backend claim runs outside the lock; its own atomicity
	// decides races, the seen set is only a redelivery fast path.
	if !g.backend.Claim(ctx, signalID) {
		return false
	}

	g.mu.Lock()
	g.seen[signalID] = struct{}{}
	g.mu.Unlock()
	return true
}

// Close releases the backend.
func (g *Guard) Close() error {
	if g.backend == nil {
		return nil
	}
	return g.backend.Close()
}
