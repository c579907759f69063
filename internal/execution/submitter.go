package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
	"github.com/sidemix/signals-hyperliquid/internal/metrics"
	"github.com/sidemix/signals-hyperliquid/pkg/quant"
)

// OrderPlacer is the single exchange call the submitter performs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order hyper.OrderRequest) (*hyper.OrderStatus, error)
}

// Submitter drives one plan through the submission state machine:
//
//	BUILT -> SENT -> ACCEPTED
//	              -> REJECTED_ROUNDING -> BUILT (one size decimal fewer)
//	              -> REJECTED_OTHER    (terminal, never retried)
//
// Only the venue's rounding/precision complaints are retried, each
// attempt formatting the size with one fractional digit less, up to
// maxAttempts. Every other rejection is logically invalid to resend
// and propagates immediately.
type Submitter struct {
	placer      OrderPlacer
	maxAttempts int
}

// NewSubmitter builds a submitter with the given retry ceiling.
func NewSubmitter(placer OrderPlacer, maxAttempts int) *Submitter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Submitter{placer: placer, maxAttempts: maxAttempts}
}

// Submit sends the plan and returns the venue's accepted status.
func (s *Submitter) Submit(ctx context.Context, plan domain.OrderPlan, meta domain.AssetMeta) (*hyper.OrderStatus, error) {
	pxStr := quant.FormatDecimal(plan.LimitPx, quant.DecimalsForStep(meta.PriceTick))
	szDecimals := quant.DecimalsForStep(meta.SizeStep)

	// One client order ID for the whole logical order, reused across
	// precision retries.
	u := uuid.New()
	cloid := fmt.Sprintf("0x%x", u[:])

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		szStr := quant.FormatDecimal(plan.Size, szDecimals)
		req := hyper.OrderRequest{
			Coin:       plan.Coin,
			IsBuy:      plan.IsBuy,
			LimitPx:    pxStr,
			Sz:         szStr,
			OrderType:  hyper.OrderType{Limit: &hyper.LimitType{Tif: string(plan.TIF)}},
			ReduceOnly: plan.ReduceOnly,
			Cloid:      cloid,
		}

		status, err := s.placer.PlaceOrder(ctx, req)
		if err == nil {
			return status, nil
		}
		if !hyper.IsRoundingRejection(err) {
			return nil, err
		}

		lastErr = err
		metrics.RoundingRetries.Inc()
		slog.Warn("rounding rejection, retrying with reduced precision",
			slog.String("coin", plan.Coin),
			slog.String("sz", szStr),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))
		if szDecimals > 0 {
			szDecimals--
		}
	}
	return nil, fmt.Errorf("rounding retries exhausted after %d attempts: %w", s.maxAttempts, lastErr)
}
