package domain

// Outcome classifies how processing one signal ended. Skips are
// successful terminal outcomes, not errors; only transport failures
// and terminal exchange rejections surface as errors alongside
// OutcomeFailed.
type Outcome string

const (
	OutcomeSubmitted        Outcome = "SUBMITTED"
	OutcomeSkippedSymbol    Outcome = "SKIPPED_SYMBOL"    // not on the allow-list
	OutcomeSkippedDuplicate Outcome = "SKIPPED_DUPLICATE" // idempotency claim lost or identical resting order
	OutcomeSkippedSize      Outcome = "SKIPPED_SIZE"      // quantized to zero or below minimum
	OutcomeDryRun           Outcome = "DRY_RUN"
	OutcomeFailed           Outcome = "FAILED"
)
