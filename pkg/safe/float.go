// Package safe provides tolerance-aware float comparisons for values
// that have been through repeated quantization and wire round-trips.
package safe

import "math"

// Default tolerances used when comparing resting orders against a
// freshly built plan. Price grids are exact after quantization so the
// price tolerance is tight; sizes accumulate drift across repeated
// notional-to-size conversions and get a looser one.
const (
	PriceEps = 1e-12
	SizeEps  = 1e-9
)

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// PositiveFinite reports whether v is a usable positive number, i.e.
// not zero, negative, NaN or infinite.
func PositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
