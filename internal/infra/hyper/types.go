package hyper

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AssetInfo is one entry of the instrument universe returned by the
// info endpoint. Decimals are converted to tick/step by the metadata
// cache, not here.
type AssetInfo struct {
	Name       string `json:"name"`
	PxDecimals int    `json:"pxDecimals"`
	SzDecimals int    `json:"szDecimals"`
	MinSz      string `json:"minSz,omitempty"`
}

// MinSize parses the optional minimum order size; 0 when absent.
func (a AssetInfo) MinSize() float64 {
	if a.MinSz == "" {
		return 0
	}
	v, err := strconv.ParseFloat(a.MinSz, 64)
	if err != nil {
		return 0
	}
	return v
}

type metaResponse struct {
	Universe []AssetInfo `json:"universe"`
}

// OpenOrder is a resting order as reported by the info endpoint.
type OpenOrder struct {
	Coin    string `json:"coin"`
	Side    string `json:"side"` // "B" bid, "A" ask
	LimitPx string `json:"limitPx"`
	Sz      string `json:"sz"`
	Oid     int64  `json:"oid"`
}

// IsBuy reports whether the resting order sits on the bid side.
func (o OpenOrder) IsBuy() bool { return o.Side == "B" }

// Px returns the limit price as a float, NaN-free (0 on parse error).
func (o OpenOrder) Px() float64 { return parseWireFloat(o.LimitPx) }

// Size returns the order size as a float (0 on parse error).
func (o OpenOrder) Size() float64 { return parseWireFloat(o.Sz) }

func parseWireFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// LimitType carries the time-in-force of a limit order.
type LimitType struct {
	Tif string `json:"tif"` // "Alo", "Ioc", "Gtc"
}

// OrderType encodes the order variant; only limit orders are sent.
type OrderType struct {
	Limit *LimitType `json:"limit,omitempty"`
}

// OrderRequest is the wire form of one order submission. Prices and
// sizes travel as decimal strings; the venue rejects representations
// carrying more precision than the instrument grid.
type OrderRequest struct {
	Coin       string    `json:"coin"`
	IsBuy      bool      `json:"is_buy"`
	LimitPx    string    `json:"limit_px"`
	Sz         string    `json:"sz"`
	OrderType  OrderType `json:"order_type"`
	ReduceOnly bool      `json:"reduce_only"`
	Cloid      string    `json:"cloid,omitempty"`
}

// OrderStatus is the per-order result inside an exchange response.
type OrderStatus struct {
	Resting *RestingStatus `json:"resting,omitempty"`
	Filled  *FilledStatus  `json:"filled,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// RestingStatus identifies an accepted order now resting on the book.
type RestingStatus struct {
	Oid int64 `json:"oid"`
}

// FilledStatus reports an immediate (partial) fill.
type FilledStatus struct {
	Oid     int64  `json:"oid"`
	AvgPx   string `json:"avgPx"`
	TotalSz string `json:"totalSz"`
}

type orderAction struct {
	Type     string         `json:"type"` // "order"
	Orders   []OrderRequest `json:"orders"`
	Grouping string         `json:"grouping"` // "na"
}

type exchangeRequest struct {
	Action orderAction `json:"action"`
	Nonce  int64       `json:"nonce"`
}

type exchangeResponse struct {
	Status   string          `json:"status"` // "ok" or "err"
	Response json.RawMessage `json:"response"`
}

type orderResponseData struct {
	Type string `json:"type"`
	Data struct {
		Statuses []OrderStatus `json:"statuses"`
	} `json:"data"`
}
