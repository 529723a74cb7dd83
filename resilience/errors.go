package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimitExceeded is returned when an admission window is
	// exhausted. Window-scoped errors wrap it, so errors.Is reports
	// true for both scopes.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrMinuteLimitExceeded is returned when the per-minute window is
	// exhausted.
	ErrMinuteLimitExceeded = &limitError{scope: "minute"}

	// ErrHourLimitExceeded is returned when the per-hour window is
	// exhausted.
	ErrHourLimitExceeded = &limitError{scope: "hour"}

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// limitError scopes a rate-limit rejection to the window that rejected
// the request.
type limitError struct {
	scope string
}

func (e *limitError) Error() string {
	return "resilience: " + e.scope + " rate limit exceeded"
}

// Unwrap makes errors.Is(err, ErrRateLimitExceeded) hold for both
// window scopes.
func (e *limitError) Unwrap() error {
	return ErrRateLimitExceeded
}
