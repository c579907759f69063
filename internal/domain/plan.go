package domain

// AssetMeta is the cached numeric constraint set for one coin.
type AssetMeta struct {
	PriceTick float64 // minimum price increment
	SizeStep  float64 // minimum size increment
	MinSize   float64 // minimum order size; 0 means the venue publishes none

	// Fallback marks metadata synthesized from configured defaults
	// after the instrument endpoint could not be reached. Plans built
	// from it are lower-confidence.
	Fallback bool
}

// OrderPlan is the quantized, submission-ready form of a signal.
// LimitPx is an exact multiple of the price tick and Size an exact
// multiple of the size step by the time a plan is constructed; plans
// violating the minimum size are rejected before submission.
type OrderPlan struct {
	Coin       string
	IsBuy      bool
	LimitPx    float64
	Size       float64
	TIF        TimeInForce
	ReduceOnly bool // always false for entries
}
