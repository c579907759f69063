package execution

import (
	"strings"

	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
	"github.com/sidemix/signals-hyperliquid/pkg/safe"
)

// FindMatch reports whether the account already has a resting order
// functionally identical to the plan: same coin and side, price within
// a tight epsilon, size within a looser one (sizes drift across
// repeated notional-to-size conversions).
//
// This is the crash-replay safety net behind the idempotency store,
// not a replacement for it.
func FindMatch(orders []hyper.OpenOrder, coin string, isBuy bool, limitPx, size float64) bool {
	for _, o := range orders {
		if !strings.EqualFold(o.Coin, coin) || o.IsBuy() != isBuy {
			continue
		}
		if safe.ApproxEqual(o.Px(), limitPx, safe.PriceEps) &&
			safe.ApproxEqual(o.Size(), size, safe.SizeEps) {
			return true
		}
	}
	return false
}
