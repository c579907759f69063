package execution

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
)

// scriptedPlacer returns errs[i] for call i (nil accepts) and records
// every request. The last script entry repeats when calls run past it.
type scriptedPlacer struct {
	errs     []error
	requests []hyper.OrderRequest
}

func (p *scriptedPlacer) PlaceOrder(ctx context.Context, order hyper.OrderRequest) (*hyper.OrderStatus, error) {
	p.requests = append(p.requests, order)
	i := len(p.requests) - 1
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	if err := p.errs[i]; err != nil {
		return nil, err
	}
	return &hyper.OrderStatus{Resting: &hyper.RestingStatus{Oid: 1}}, nil
}

var roundingErr = &hyper.OrderError{Msg: "Price must be divisible by tick size."}

func testPlan() (domain.OrderPlan, domain.AssetMeta) {
	plan := domain.OrderPlan{
		Coin:    "BTC",
		IsBuy:   true,
		LimitPx: 109525.0,
		Size:    1.23456789,
		TIF:     domain.TifAlo,
	}
	meta := domain.AssetMeta{PriceTick: 0.5, SizeStep: 0.0001}
	return plan, meta
}

func TestSubmitter_AcceptsFirstTry(t *testing.T) {
	placer := &scriptedPlacer{errs: []error{nil}}
	s := NewSubmitter(placer, 8)
	plan, meta := testPlan()

	status, err := s.Submit(context.Background(), plan, meta)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if status.Resting == nil {
		t.Fatal("expected resting status")
	}
	if len(placer.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(placer.requests))
	}

	req := placer.requests[0]
	if req.Sz != "1.2345" {
		t.Errorf("size = %q, want quantized-precision 1.2345", req.Sz)
	}
	if req.LimitPx != "109525" {
		t.Errorf("limit px = %q, want 109525", req.LimitPx)
	}
	if req.OrderType.Limit == nil || req.OrderType.Limit.Tif != "Alo" {
		t.Errorf("order type = %+v", req.OrderType)
	}
	if !strings.HasPrefix(req.Cloid, "0x") || len(req.Cloid) != 34 {
		t.Errorf("cloid = %q, want 0x + 32 hex chars", req.Cloid)
	}
}

func TestSubmitter_ReducesPrecisionOnRoundingRejection(t *testing.T) {
	placer := &scriptedPlacer{errs: []error{roundingErr, roundingErr, nil}}
	s := NewSubmitter(placer, 8)
	plan, meta := testPlan()

	if _, err := s.Submit(context.Background(), plan, meta); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	want := []string{"1.2345", "1.234", "1.23"}
	if len(placer.requests) != len(want) {
		t.Fatalf("got %d requests, want %d", len(placer.requests), len(want))
	}
	for i, w := range want {
		if placer.requests[i].Sz != w {
			t.Errorf("attempt %d size = %q, want %q", i+1, placer.requests[i].Sz, w)
		}
	}
	// The logical order keeps its client ID across retries.
	if placer.requests[0].Cloid != placer.requests[2].Cloid {
		t.Error("cloid changed across retries")
	}
}

func TestSubmitter_RetryCeilingTerminates(t *testing.T) {
	placer := &scriptedPlacer{errs: []error{roundingErr}}
	s := NewSubmitter(placer, 5)
	plan, meta := testPlan()

	_, err := s.Submit(context.Background(), plan, meta)
	if err == nil {
		t.Fatal("exhausted retries must error")
	}
	if len(placer.requests) != 5 {
		t.Errorf("got %d attempts, want exactly the ceiling of 5", len(placer.requests))
	}
	if !errors.As(err, new(*hyper.OrderError)) {
		t.Errorf("terminal error should wrap the last rejection: %v", err)
	}
}

func TestSubmitter_TerminalRejectionNotRetried(t *testing.T) {
	terminal := &hyper.OrderError{Msg: "Insufficient margin to place order."}
	placer := &scriptedPlacer{errs: []error{terminal}}
	s := NewSubmitter(placer, 8)
	plan, meta := testPlan()

	_, err := s.Submit(context.Background(), plan, meta)
	if !errors.Is(err, terminal) {
		t.Fatalf("want terminal rejection, got %v", err)
	}
	if len(placer.requests) != 1 {
		t.Errorf("terminal rejection retried %d times", len(placer.requests)-1)
	}
}

func TestSubmitter_TransportErrorNotRetried(t *testing.T) {
	transport := errors.New("connection reset")
	placer := &scriptedPlacer{errs: []error{transport}}
	s := NewSubmitter(placer, 8)
	plan, meta := testPlan()

	_, err := s.Submit(context.Background(), plan, meta)
	if !errors.Is(err, transport) {
		t.Fatalf("want transport error, got %v", err)
	}
	if len(placer.requests) != 1 {
		t.Errorf("transport error retried %d times", len(placer.requests)-1)
	}
}
