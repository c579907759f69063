package idempotency

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/gofrs/flock"

	"github.com/sidemix/signals-hyperliquid/internal/infra"
)

// SQLiteStore is the local durable claim backend, used when no redis
// is configured. It is single-host only: the UNIQUE primary key plus
// an inter-process file lock serialize writers on one machine, nothing
// more. Expired claims are purged lazily before each insert.
//
// Failure semantics differ from redis: any error other than the
// uniqueness violation is logged and treated as a successful claim, so
// a broken local disk degrades idempotency instead of halting trading.
type SQLiteStore struct {
	db   *sql.DB
	lock *flock.Flock
	ttl  time.Duration
}

// NewSQLiteStore opens (and if needed creates) the claim table at
// dbPath in WAL mode, tolerant of concurrent readers.
func NewSQLiteStore(dbPath, lockPath string, ttl time.Duration) (*SQLiteStore, error) {
	if err := infra.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=10000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sent_signal_ids (
			signal_id TEXT PRIMARY KEY,
			ts INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create claim table: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		lock: flock.New(lockPath),
		ttl:  ttl,
	}, nil
}

// Claim inserts signalID; the primary key makes the first writer win.
func (s *SQLiteStore) Claim(ctx context.Context, signalID string) bool {
	if err := s.lock.Lock(); err != nil {
		// Proceed on the table's own constraint; the lock only reduces
		// busy-retry churn between local processes.
		slog.Warn("idempotency file lock failed", slog.Any("error", err))
	} else {
		defer s.lock.Unlock()
	}

	now := time.Now().Unix()
	return s.claimAt(ctx, signalID, now)
}

func (s *SQLiteStore) claimAt(ctx context.Context, signalID string, now int64) bool {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM sent_signal_ids WHERE ts < ?", now-int64(s.ttl.Seconds())); err != nil {
		slog.Warn("idempotency purge failed", slog.Any("error", err))
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sent_signal_ids (signal_id, ts) VALUES (?, ?)", signalID, now)
	if err == nil {
		slog.Info("claimed signal (sqlite)", slog.String("signal_id", signalID))
		return true
	}
	if isUniqueViolation(err) {
		slog.Info("skip duplicate signal (sqlite)", slog.String("signal_id", signalID))
		return false
	}

	slog.Error("sqlite claim error, best-effort continue",
		slog.String("signal_id", signalID),
		slog.Any("error", err))
	return true
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
