package health

import "errors"

// Sentinel errors for health operations.
var (
	// ErrCheckerNotFound is returned when a named checker is not registered.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrCheckTimeout is returned when a health check exceeds its deadline.
	ErrCheckTimeout = errors.New("health: check timed out")
)
