package infra

import (
	"time"
)

const (
	// Transport retries sit in the hot path of signal handling, so the
	// schedule is short: 250ms, 500ms, 1s, ... capped at 5s.
	baseDelay = 250 * time.Millisecond
	maxDelay  = 5 * time.Second
)

// CalculateBackoff returns the exponential backoff delay for the given
// attempt number (0-based): baseDelay * 2^attempt, capped at maxDelay.
func CalculateBackoff(attempt int) time.Duration {
	if attempt < 0 {
		return baseDelay
	}
	if attempt > 20 {
		return maxDelay
	}
	d := baseDelay * time.Duration(1<<attempt)
	if d > maxDelay {
		return maxDelay
	}
	return d
}
