// Package app wires the executor together: config, logger, claim
// store, exchange client, metadata cache and the coordinator.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sidemix/signals-hyperliquid/internal/assets"
	"github.com/sidemix/signals-hyperliquid/internal/execution"
	"github.com/sidemix/signals-hyperliquid/internal/idempotency"
	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config      *infra.Config
	Claims      *idempotency.Guard
	Client      *hyper.Client
	Assets      *assets.Cache
	Coordinator *execution.Coordinator

	signer *hyper.Signer
}

// NewBootstrap creates an empty Bootstrap; Initialize does the work.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization in dependency order.
// After it returns nil the coordinator is ready to take signals.
func (b *Bootstrap) Initialize(ctx context.Context, configPath string) error {
	// .env is optional; the environment always wins over the file.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("🚀 Bootstrapping signal executor",
		slog.String("version", cfg.App.Version),
		slog.Bool("dry_run", cfg.Trading.DryRun))

	if err := infra.EnsureDir(filepath.Dir(cfg.Idempotency.DBPath)); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	claims, err := idempotency.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	b.Claims = claims

	if !cfg.Trading.DryRun {
		b.signer = hyper.NewSigner(cfg.API.AccountAddress, cfg.API.PrivateKey)
		slog.Info("🔑 Signer ready",
			slog.String("account", cfg.API.AccountAddress),
			slog.String("key", cfg.MaskedKey()))
	}
	b.Client = hyper.NewClient(cfg, b.signer)

	b.Assets = assets.NewCache(b.Client, cfg)
	b.Coordinator = execution.NewCoordinator(cfg, claims, b.Assets, b.Client)

	slog.Info("✅ Executor initialized", slog.String("api", cfg.API.URL))
	return nil
}

// WarmMetadata pre-resolves the instrument universe so the first signal
// does not pay the fetch. Failures are tolerated; the per-signal
// fallback path covers them.
func (b *Bootstrap) WarmMetadata(ctx context.Context) {
	defer infra.Recover()
	n, err := b.Assets.Warm(ctx)
	if err != nil {
		slog.Warn("metadata warmup failed", slog.Any("error", err))
		return
	}
	slog.Info("🔄 Instrument universe loaded", slog.Int("assets", n))
}

// Close releases the claim store and wipes key material.
func (b *Bootstrap) Close() {
	if b.Claims != nil {
		if err := b.Claims.Close(); err != nil {
			slog.Warn("closing claim store", slog.Any("error", err))
		}
	}
	if b.signer != nil {
		b.signer.Wipe()
	}
	_ = os.Stdout.Sync()
}
