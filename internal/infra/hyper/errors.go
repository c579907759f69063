package hyper

import (
	"errors"
	"strings"
)

// OrderError is a rejection reported by the exchange itself, as
// opposed to a transport failure. The raw message is kept verbatim so
// operators can grep logs against the venue's wording.
type OrderError struct {
	Msg string
}

func (e *OrderError) Error() string { return "exchange rejected order: " + e.Msg }

// roundingPatterns is the single place new rounding/precision
// rejection wordings get added as they are observed in the wild.
// Anything not matched here is terminal and never retried.
var roundingPatterns = []string{
	"divisible by tick size",
	"invalid price precision",
	"invalid size precision",
	"too many decimals",
	"rounding",
	"float precision",
}

// IsRoundingRejection reports whether err is an exchange rejection
// complaining about wire-level price/size precision, the only class
// the submitter retries with reduced precision.
func IsRoundingRejection(err error) bool {
	var oe *OrderError
	if !errors.As(err, &oe) {
		return false
	}
	msg := strings.ToLower(oe.Msg)
	for _, p := range roundingPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
