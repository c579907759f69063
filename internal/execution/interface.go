// Package execution turns a claimed signal into exactly one order
// submission: quantize against the instrument grid, scan for an
// identical resting order, submit with rounding-aware retries.
package execution

import (
	"context"

	"github.com/sidemix/signals-hyperliquid/internal/domain"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
)

// Exchange is the slice of the venue client the coordinator consumes.
type Exchange interface {
	OpenOrders(ctx context.Context) ([]hyper.OpenOrder, error)
	PlaceOrder(ctx context.Context, order hyper.OrderRequest) (*hyper.OrderStatus, error)
}

// ClaimStore answers whether this process may act on a signal ID.
type ClaimStore interface {
	Claim(ctx context.Context, signalID string) bool
}

// MetaResolver maps a coin to its trading constraints.
type MetaResolver interface {
	Resolve(ctx context.Context, coin string) domain.AssetMeta
}
