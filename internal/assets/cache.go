// Package assets resolves a coin to its trading constraints (price
// tick, size step, minimum size) and caches the result for the life of
// the process. Instrument grids change rarely relative to uptime, so
// there is no TTL; a failed resolution is not cached and will be
// retried on the next signal touching the coin.
package assets

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
	"github.com/sidemix/signals-hyperliquid/pkg/quant"
)

// MetaFetcher is the slice of the exchange client the cache needs.
type MetaFetcher interface {
	Meta(ctx context.Context) ([]hyper.AssetInfo, error)
}

// Cache maps coin -> AssetMeta. Safe for concurrent use; one metadata
// fetch populates the whole universe at once.
type Cache struct {
	fetcher MetaFetcher

	mu     sync.Mutex
	byCoin map[string]domain.AssetMeta

	tickOverrides map[string]float64
	stepOverrides map[string]float64
	fallback      domain.AssetMeta
}

// NewCache wires the cache to a fetcher and the operator overrides and
// fallback constants from config.
func NewCache(fetcher MetaFetcher, cfg *infra.Config) *Cache {
	c := &Cache{
		fetcher:       fetcher,
		byCoin:        make(map[string]domain.AssetMeta),
		tickOverrides: upperKeys(cfg.Assets.TickOverrides),
		stepOverrides: upperKeys(cfg.Assets.StepOverrides),
		fallback: domain.AssetMeta{
			PriceTick: cfg.Assets.Fallback.PriceTick,
			SizeStep:  cfg.Assets.Fallback.SizeStep,
			MinSize:   cfg.Assets.Fallback.MinSize,
			Fallback:  true,
		},
	}
	return c
}

// Resolve returns the constraints for coin. On a miss the full
// instrument universe is fetched and cached. When resolution fails the
// configured fallback constants are returned, marked Fallback, and not
// cached so the next call retries the endpoint.
func (c *Cache) Resolve(ctx context.Context, coin string) domain.AssetMeta {
	coin = strings.ToUpper(coin)

	c.mu.Lock()
	meta, ok := c.byCoin[coin]
	c.mu.Unlock()
	if ok {
		return c.withOverrides(coin, meta)
	}

	if _, err := c.Warm(ctx); err != nil {
		slog.Warn("asset metadata fetch failed, using fallback constants",
			slog.String("coin", coin),
			slog.Any("error", err))
		return c.withOverrides(coin, c.fallback)
	}

	c.mu.Lock()
	meta, ok = c.byCoin[coin]
	c.mu.Unlock()

	if !ok {
		slog.Warn("coin missing from instrument universe, using fallback constants",
			slog.String("coin", coin))
		return c.withOverrides(coin, c.fallback)
	}

	slog.Info("asset metadata resolved",
		slog.String("coin", coin),
		slog.Float64("price_tick", meta.PriceTick),
		slog.Float64("size_step", meta.SizeStep),
		slog.Float64("min_size", meta.MinSize))
	return c.withOverrides(coin, meta)
}

// Warm fetches the full instrument universe and caches every entry,
// returning how many assets were cached. Called once at startup and on
// every cache miss.
func (c *Cache) Warm(ctx context.Context) (int, error) {
	universe, err := c.fetcher.Meta(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	for _, a := range universe {
		c.byCoin[strings.ToUpper(a.Name)] = domain.AssetMeta{
			PriceTick: quant.StepForDecimals(a.PxDecimals),
			SizeStep:  quant.StepForDecimals(a.SzDecimals),
			MinSize:   a.MinSize(),
		}
	}
	c.mu.Unlock()
	return len(universe), nil
}

// withOverrides applies the per-coin operator overrides; they win over
// both fetched and fallback values.
func (c *Cache) withOverrides(coin string, meta domain.AssetMeta) domain.AssetMeta {
	if tick, ok := c.tickOverrides[coin]; ok && tick > 0 {
		meta.PriceTick = tick
	}
	if step, ok := c.stepOverrides[coin]; ok && step > 0 {
		meta.SizeStep = step
	}
	return meta
}

func upperKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}
