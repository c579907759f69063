package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
)

type stubClaims struct {
	seen map[string]bool
}

func (c *stubClaims) Claim(ctx context.Context, id string) bool {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[id] {
		return false
	}
	c.seen[id] = true
	return true
}

type stubMeta struct {
	byCoin map[string]domain.AssetMeta
}

func (m *stubMeta) Resolve(ctx context.Context, coin string) domain.AssetMeta {
	if meta, ok := m.byCoin[coin]; ok {
		return meta
	}
	return domain.AssetMeta{PriceTick: 0.01, SizeStep: 0.001, Fallback: true}
}

type stubExchange struct {
	scriptedPlacer
	openOrders []hyper.OpenOrder
	openErr    error
	openCalls  int
}

func (e *stubExchange) OpenOrders(ctx context.Context) ([]hyper.OpenOrder, error) {
	e.openCalls++
	return e.openOrders, e.openErr
}

func testConfig() *infra.Config {
	cfg := &infra.Config{}
	cfg.Trading.NotionalUSD = 50
	cfg.Submit.MaxRoundingRetries = 8
	return cfg
}

func btcSignal() domain.Signal {
	return domain.Signal{
		ID:        "sig-1",
		Side:      domain.SideLong,
		Symbol:    "BTC/USD",
		EntryLow:  109525.00,
		EntryHigh: 109525.50,
		TIF:       domain.TifGtc,
	}
}

var btcMeta = &stubMeta{byCoin: map[string]domain.AssetMeta{
	"BTC": {PriceTick: 0.5, SizeStep: 0.0001},
}}

func TestCoordinator_SubmitsQuantizedOrder(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)

	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSubmitted {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSubmitted)
	}
	if len(ex.requests) != 1 {
		t.Fatalf("got %d orders, want 1", len(ex.requests))
	}

	// Band midpoint 109525.25 floors to the 0.5 grid; $50 at that
	// price floors to 0.0004 on the 0.0001 grid.
	req := ex.requests[0]
	if req.Coin != "BTC" || !req.IsBuy {
		t.Errorf("order coin/side = %s/%v", req.Coin, req.IsBuy)
	}
	if req.LimitPx != "109525" {
		t.Errorf("limit px = %q, want 109525", req.LimitPx)
	}
	if req.Sz != "0.0004" {
		t.Errorf("size = %q, want 0.0004", req.Sz)
	}
	if req.OrderType.Limit.Tif != "Gtc" {
		t.Errorf("tif = %q, want Gtc", req.OrderType.Limit.Tif)
	}
}

func TestCoordinator_PostOnlyNudgesBuyDownOneTick(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	sig := btcSignal()
	sig.TIF = "" // default is post-only

	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)
	if _, err := c.Execute(context.Background(), sig); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	req := ex.requests[0]
	if req.LimitPx != "109524.5" {
		t.Errorf("limit px = %q, want one tick under the quantized midpoint", req.LimitPx)
	}
	if req.OrderType.Limit.Tif != "Alo" {
		t.Errorf("tif = %q, want Alo", req.OrderType.Limit.Tif)
	}
}

func TestCoordinator_SecondDeliverySkipped(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)

	if outcome, _ := c.Execute(context.Background(), btcSignal()); outcome != domain.OutcomeSubmitted {
		t.Fatalf("first delivery outcome = %s", outcome)
	}
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if outcome != domain.OutcomeSkippedDuplicate {
		t.Fatalf("second delivery outcome = %s, want %s", outcome, domain.OutcomeSkippedDuplicate)
	}
	if len(ex.requests) != 1 {
		t.Errorf("duplicate delivery reached the exchange: %d orders", len(ex.requests))
	}
	if ex.openCalls != 1 {
		t.Errorf("duplicate delivery scanned the book: %d scans", ex.openCalls)
	}
}

func TestCoordinator_FallbackMetaStillSubmits(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	sig := domain.Signal{
		ID:        "sig-eth",
		Side:      domain.SideLong,
		Symbol:    "ETH/USD",
		EntryLow:  3875.33,
		EntryHigh: 3877.16,
		TIF:       domain.TifGtc,
	}

	// Resolver knows nothing about ETH, so the conservative fallback
	// grid (tick 0.01, step 0.001) applies.
	c := NewCoordinator(testConfig(), &stubClaims{}, &stubMeta{}, ex)
	outcome, err := c.Execute(context.Background(), sig)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSubmitted {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSubmitted)
	}

	req := ex.requests[0]
	if req.LimitPx != "3876.24" {
		t.Errorf("limit px = %q, want 3876.24", req.LimitPx)
	}
	if req.Sz != "0.012" {
		t.Errorf("size = %q, want 0.012", req.Sz)
	}
}

func TestCoordinator_AllowListFilters(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	claims := &stubClaims{}
	cfg := testConfig()
	cfg.Trading.AllowedSymbols = []string{"ETH"}

	c := NewCoordinator(cfg, claims, btcMeta, ex)
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSkippedSymbol {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSkippedSymbol)
	}
	if len(ex.requests) != 0 || ex.openCalls != 0 {
		t.Error("filtered signal must not touch the exchange")
	}
	// The claim was never consumed, so the signal stays executable
	// once the allow-list admits it.
	if len(claims.seen) != 0 {
		t.Error("filtered signal consumed its idempotency claim")
	}
}

func TestCoordinator_TinySizeSkipped(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	meta := &stubMeta{byCoin: map[string]domain.AssetMeta{
		"BTC": {PriceTick: 0.5, SizeStep: 0.0001, MinSize: 0.01},
	}}

	c := NewCoordinator(testConfig(), &stubClaims{}, meta, ex)
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSkippedSize {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSkippedSize)
	}
	if len(ex.requests) != 0 {
		t.Error("undersized plan reached the exchange")
	}
}

func TestCoordinator_RestingDuplicateSkipped(t *testing.T) {
	ex := &stubExchange{
		scriptedPlacer: scriptedPlacer{errs: []error{nil}},
		openOrders: []hyper.OpenOrder{
			{Coin: "BTC", Side: "B", LimitPx: "109525", Sz: "0.0004", Oid: 7},
		},
	}

	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSkippedDuplicate {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSkippedDuplicate)
	}
	if len(ex.requests) != 0 {
		t.Error("duplicate of a resting order was submitted")
	}
}

func TestCoordinator_BookScanFailureStillSubmits(t *testing.T) {
	ex := &stubExchange{
		scriptedPlacer: scriptedPlacer{errs: []error{nil}},
		openErr:        errors.New("info endpoint down"),
	}

	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeSubmitted {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeSubmitted)
	}
}

func TestCoordinator_DryRunPlansButNeverSends(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	cfg := testConfig()
	cfg.Trading.DryRun = true

	c := NewCoordinator(cfg, &stubClaims{}, btcMeta, ex)
	outcome, err := c.Execute(context.Background(), btcSignal())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome != domain.OutcomeDryRun {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeDryRun)
	}
	if len(ex.requests) != 0 {
		t.Error("dry-run sent an order")
	}
}

func TestCoordinator_FixedQtyWinsOverNotional(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	sig := btcSignal()
	sig.FixedQty = 0.002

	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)
	if _, err := c.Execute(context.Background(), sig); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ex.requests[0].Sz; got != "0.002" {
		t.Errorf("size = %q, want the fixed quantity 0.002", got)
	}
}

func TestCoordinator_InvalidSignalFails(t *testing.T) {
	ex := &stubExchange{scriptedPlacer: scriptedPlacer{errs: []error{nil}}}
	sig := btcSignal()
	sig.Side = "SIDEWAYS"

	c := NewCoordinator(testConfig(), &stubClaims{}, btcMeta, ex)
	outcome, err := c.Execute(context.Background(), sig)
	if err == nil {
		t.Fatal("invalid signal must error")
	}
	if outcome != domain.OutcomeFailed {
		t.Fatalf("outcome = %s, want %s", outcome, domain.OutcomeFailed)
	}
}
