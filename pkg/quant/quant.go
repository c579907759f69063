// Package quant holds the pure numeric transforms applied to a price or
// size before it is allowed near the exchange wire. Everything here is
// deterministic and side-effect free.
package quant

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxDecimals caps how many fractional digits a tick or step grid can
// imply. Grids finer than 1e-12 are indistinguishable from float noise.
const MaxDecimals = 12

// quantizeEps absorbs division drift when a value already sits on the
// grid, keeping QuantizeDown idempotent under repeated application.
const quantizeEps = 1e-9

// QuantizeDown floors v to the nearest lower multiple of step.
// It never rounds up: an over-precise price or size is always rejected
// by the venue, and flooring is the conservative direction for both.
// A non-positive step returns v unchanged.
func QuantizeDown(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Floor(v/step+quantizeEps) * step
}

// NudgeMaker shifts a post-only limit price one tick away from the
// given price so the order cannot cross the opposing side of the book
// at submission time. Buys move down, sells move up. The result is
// re-quantized and a buy is floored at one tick so it stays positive.
func NudgeMaker(px, tick float64, isBuy bool) float64 {
	if tick <= 0 {
		return px
	}
	if isBuy {
		return QuantizeDown(math.Max(tick, px-tick), tick)
	}
	return QuantizeDown(px+tick, tick)
}

// RescueMinSize bumps a quantized size up to the instrument minimum
// when rounding alone pushed it under the floor. A raw size that never
// reached the floor is returned untouched so the caller can skip it.
// The rescued size stays on the step grid: it is the smallest step
// multiple at or above minSize, never below one step.
func RescueMinSize(size, raw, step, minSize float64) float64 {
	if minSize <= 0 {
		return size
	}
	if size < minSize && raw >= minSize {
		if step <= 0 {
			return minSize
		}
		steps := math.Ceil(minSize/step - quantizeEps)
		return math.Max(steps, 1) * step
	}
	return size
}

// DecimalsForStep derives the number of fractional digits needed to
// represent any multiple of step exactly, e.g. 0.001 -> 3 and a
// half-tick grid 0.5 -> 1. Clamped to [0, MaxDecimals].
func DecimalsForStep(step float64) int32 {
	if step <= 0 {
		return MaxDecimals
	}
	d := int32(math.Ceil(-math.Log10(step) - 1e-9))
	if d < 0 {
		return 0
	}
	if d > MaxDecimals {
		return MaxDecimals
	}
	return d
}

// StepForDecimals is the inverse of DecimalsForStep: 3 -> 0.001.
func StepForDecimals(decimals int) float64 {
	return math.Pow(10, -float64(decimals))
}

// FormatDecimal renders v as a decimal string truncated (never rounded
// up) to at most maxDecimals fractional digits, with trailing zeros
// stripped. The venue rejects representations carrying more precision
// than the instrument grid allows, so formatting is part of the
// quantization contract, not cosmetics.
func FormatDecimal(v float64, maxDecimals int32) string {
	if maxDecimals < 0 {
		maxDecimals = 0
	}
	return decimal.NewFromFloat(v).Truncate(maxDecimals).String()
}
