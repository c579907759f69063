package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sidemix/signals-hyperliquid/internal/app"
	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/metrics"
)

func main() {
	// 0. Global Panic Recovery
	defer infra.Recover()

	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	// 1. System Bootstrapping
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(ctx, *configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	infra.PrintBanner(bootstrap.Config)

	// 2. Metrics Server (optional)
	if addr := bootstrap.Config.Metrics.Addr; addr != "" {
		srv := metrics.Serve(addr)
		defer srv.Close()
		slog.Info("📈 Metrics server started", slog.String("addr", addr))
	}

	// 3. Background Metadata Warmup
	go bootstrap.WarmMetadata(ctx)

	// 4. Signal Loop
	// One JSON signal per stdin line; the feed bridge upstream owns
	// parsing the chat messages into this shape.
	slog.InfoContext(ctx, "✨ Executor operational, reading signals from stdin")
	if err := run(ctx, bootstrap); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("signal loop ended", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}

func run(ctx context.Context, bootstrap *app.Bootstrap) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if line == "" {
				continue
			}
			handleLine(ctx, bootstrap, line)
		}
	}
}

func handleLine(ctx context.Context, bootstrap *app.Bootstrap, line string) {
	var sig domain.Signal
	if err := json.Unmarshal([]byte(line), &sig); err != nil {
		slog.Warn("unparsable signal line skipped", slog.Any("error", err))
		return
	}

	outcome, err := bootstrap.Coordinator.Execute(ctx, sig)
	if err != nil {
		slog.Error("signal failed",
			slog.String("signal_id", sig.IdempotencyKey()),
			slog.String("outcome", string(outcome)),
			slog.Any("error", err))
		return
	}
	slog.Info("signal handled",
		slog.String("signal_id", sig.IdempotencyKey()),
		slog.String("symbol", sig.Symbol),
		slog.String("outcome", string(outcome)))
}
