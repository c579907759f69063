package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/metrics"
	"github.com/sidemix/signals-hyperliquid/pkg/quant"
)

// Coordinator runs the fixed per-signal sequence: allow-list filter,
// idempotency claim, metadata lookup, quantization, duplicate scan,
// submission. Each signal is handled by one invocation; the claim
// store carries the cross-process guarantees.
type Coordinator struct {
	cfg    *infra.Config
	claims ClaimStore
	meta   MetaResolver
	ex     Exchange
	sub    *Submitter
}

// NewCoordinator wires the pipeline.
func NewCoordinator(cfg *infra.Config, claims ClaimStore, meta MetaResolver, ex Exchange) *Coordinator {
	return &Coordinator{
		cfg:    cfg,
		claims: claims,
		meta:   meta,
		ex:     ex,
		sub:    NewSubmitter(ex, cfg.Submit.MaxRoundingRetries),
	}
}

// Execute processes one signal to a terminal outcome. Skips are
// successful outcomes with a nil error; only transport failures,
// terminal exchange rejections and invalid signals return one.
func (c *Coordinator) Execute(ctx context.Context, sig domain.Signal) (domain.Outcome, error) {
	outcome, err := c.execute(ctx, sig)
	metrics.SignalsTotal.WithLabelValues(string(outcome)).Inc()
	return outcome, err
}

func (c *Coordinator) execute(ctx context.Context, sig domain.Signal) (domain.Outcome, error) {
	if err := sig.Validate(); err != nil {
		return domain.OutcomeFailed, fmt.Errorf("invalid signal: %w", err)
	}

	if !c.cfg.SymbolAllowed(sig) {
		slog.Info("skip signal, symbol not on allow-list",
			slog.String("symbol", sig.Symbol))
		return domain.OutcomeSkippedSymbol, nil
	}

	key := sig.IdempotencyKey()
	if !c.claims.Claim(ctx, key) {
		slog.Info("skip duplicate signal",
			slog.String("signal_id", key),
			slog.String("symbol", sig.Symbol))
		return domain.OutcomeSkippedDuplicate, nil
	}

	coin := sig.Coin()
	meta := c.meta.Resolve(ctx, coin)

	plan, rawSize, ok := c.buildPlan(sig, meta)
	if !ok {
		return domain.OutcomeSkippedSize, nil
	}

	slog.Info("order plan",
		slog.String("coin", plan.Coin),
		slog.Bool("is_buy", plan.IsBuy),
		slog.Float64("limit_px", plan.LimitPx),
		slog.Float64("size", plan.Size),
		slog.Float64("raw_size", rawSize),
		slog.String("tif", string(plan.TIF)),
		slog.Bool("fallback_meta", meta.Fallback))

	if c.scanFindsDuplicate(ctx, plan) {
		return domain.OutcomeSkippedDuplicate, nil
	}

	if c.cfg.Trading.DryRun {
		slog.Info("dry-run, order not sent", slog.String("coin", plan.Coin))
		return domain.OutcomeDryRun, nil
	}

	status, err := c.sub.Submit(ctx, plan, meta)
	if err != nil {
		return domain.OutcomeFailed, err
	}

	side := "SELL"
	if plan.IsBuy {
		side = "BUY"
	}
	metrics.OrdersSubmitted.WithLabelValues(plan.Coin, side).Inc()
	switch {
	case status.Resting != nil:
		slog.Info("order resting", slog.String("coin", plan.Coin), slog.Int64("oid", status.Resting.Oid))
	case status.Filled != nil:
		slog.Info("order filled", slog.String("coin", plan.Coin), slog.Int64("oid", status.Filled.Oid))
	}
	return domain.OutcomeSubmitted, nil
}

// buildPlan quantizes the signal into a submission-ready plan. The
// bool result is false when the size quantized to zero or under the
// instrument minimum; those signals are skipped, not failed.
func (c *Coordinator) buildPlan(sig domain.Signal, meta domain.AssetMeta) (domain.OrderPlan, float64, bool) {
	isBuy := sig.Side.IsBuy()

	limitPx := quant.QuantizeDown(sig.Mid(), meta.PriceTick)
	tif := sig.TIF
	if tif == "" {
		tif = c.cfg.DefaultTIF()
	}
	if tif == domain.TifAlo {
		limitPx = quant.NudgeMaker(limitPx, meta.PriceTick, isBuy)
	}

	var rawSize float64
	switch {
	case sig.FixedQty > 0:
		rawSize = sig.FixedQty
	case c.cfg.Trading.FixedQty > 0:
		rawSize = c.cfg.Trading.FixedQty
	default:
		notional := sig.NotionalUSD
		if notional <= 0 {
			notional = c.cfg.Trading.NotionalUSD
		}
		if limitPx > 0 {
			rawSize = notional / limitPx
		}
	}

	size := quant.QuantizeDown(rawSize, meta.SizeStep)
	size = quant.RescueMinSize(size, rawSize, meta.SizeStep, meta.MinSize)

	if size <= 0 || (meta.MinSize > 0 && size < meta.MinSize) {
		slog.Info("skip signal, size below instrument minimum",
			slog.String("coin", sig.Coin()),
			slog.Float64("raw_size", rawSize),
			slog.Float64("quantized_size", size),
			slog.Float64("size_step", meta.SizeStep),
			slog.Float64("min_size", meta.MinSize),
			slog.Float64("limit_px", limitPx))
		return domain.OrderPlan{}, rawSize, false
	}

	return domain.OrderPlan{
		Coin:       sig.Coin(),
		IsBuy:      isBuy,
		LimitPx:    limitPx,
		Size:       size,
		TIF:        tif,
		ReduceOnly: false,
	}, rawSize, true
}

// scanFindsDuplicate checks the book for an identical resting order.
// Best-effort: a failed fetch logs a warning and lets submission
// proceed.
func (c *Coordinator) scanFindsDuplicate(ctx context.Context, plan domain.OrderPlan) bool {
	orders, err := c.ex.OpenOrders(ctx)
	if err != nil {
		slog.Warn("open-order duplicate check failed, continuing",
			slog.Any("error", err))
		return false
	}
	if FindMatch(orders, plan.Coin, plan.IsBuy, plan.LimitPx, plan.Size) {
		slog.Info("skip signal, identical order already resting",
			slog.String("coin", plan.Coin),
			slog.Float64("limit_px", plan.LimitPx),
			slog.Float64("size", plan.Size))
		return true
	}
	return false
}
