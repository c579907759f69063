// Package domain defines the records flowing through the order
// submission pipeline: the inbound Signal, the derived AssetMeta and
// OrderPlan, and the per-signal Outcome.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Side is the direction of a signal.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// IsBuy maps the signal direction to the order side.
func (s Side) IsBuy() bool { return s == SideLong }

// TimeInForce selects the limit order variant sent to the venue.
type TimeInForce string

const (
	// TifAlo rests the order as a maker; it is rejected if it would
	// immediately match (post-only / add-liquidity-only).
	TifAlo TimeInForce = "Alo"
	TifIoc TimeInForce = "Ioc"
	TifGtc TimeInForce = "Gtc"
)

// ParseTIF normalizes the spellings seen in feeds and configs.
// Unknown values map to the empty TIF, which the coordinator replaces
// with the configured default.
func ParseTIF(s string) TimeInForce {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alo", "postonly", "post-only":
		return TifAlo
	case "ioc":
		return TifIoc
	case "gtc":
		return TifGtc
	default:
		return ""
	}
}

// UnmarshalJSON normalizes feed spellings ("postonly", "ALO") at the
// decode boundary so only canonical values exist past it.
func (t *TimeInForce) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = ParseTIF(s)
	return nil
}

// Signal is the unit of work handed to the execution coordinator by
// the upstream feed. It is normalized once at construction and never
// mutated afterwards; field-alias probing does not exist past this
// boundary.
//
// Zero values mean "not provided" for the optional fields: StopLoss,
// Leverage, NotionalUSD and FixedQty.
type Signal struct {
	ID        string  `json:"id"`
	Side      Side    `json:"side"`
	Symbol    string  `json:"symbol"` // e.g. "BTC/USD"
	EntryLow  float64 `json:"entry_low"`
	EntryHigh float64 `json:"entry_high"`
	StopLoss  float64 `json:"stop_loss,omitempty"`
	Leverage  float64 `json:"leverage,omitempty"`

	// Sizing overrides; FixedQty wins over NotionalUSD when both set.
	NotionalUSD float64 `json:"notional_usd,omitempty"`
	FixedQty    float64 `json:"fixed_qty,omitempty"`

	TIF TimeInForce `json:"tif,omitempty"`
}

// Coin extracts the traded coin from the symbol ("BTC/USD" -> "BTC").
func (s Signal) Coin() string {
	sym := strings.ToUpper(strings.TrimSpace(s.Symbol))
	if i := strings.IndexByte(sym, '/'); i >= 0 {
		return sym[:i]
	}
	return sym
}

// Mid is the midpoint of the entry band.
func (s Signal) Mid() float64 { return (s.EntryLow + s.EntryHigh) / 2 }

// Validate rejects signals that cannot be turned into an order at all.
// Optional fields are not checked here.
func (s Signal) Validate() error {
	if s.Side != SideLong && s.Side != SideShort {
		return fmt.Errorf("unsupported side %q", s.Side)
	}
	if s.Coin() == "" {
		return fmt.Errorf("empty symbol")
	}
	if s.EntryLow <= 0 || s.EntryHigh <= 0 {
		return fmt.Errorf("entry band (%v, %v) must be positive", s.EntryLow, s.EntryHigh)
	}
	if s.EntryLow > s.EntryHigh {
		return fmt.Errorf("entry band (%v, %v) is inverted", s.EntryLow, s.EntryHigh)
	}
	return nil
}

// IdempotencyKey returns the identifier the claim store guards. When
// the feed supplied no message ID, a content fingerprint stands in so
// a redelivered identical signal still collides with itself.
func (s Signal) IdempotencyKey() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Fingerprint()
}

// Fingerprint is a stable SHA-256 digest over the fields that make two
// signals "the same trade".
func (s Signal) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%.8f|%.8f|%.8f", s.Side, s.Coin(), s.EntryLow, s.EntryHigh, s.StopLoss)
	return hex.EncodeToString(h.Sum(nil))
}
