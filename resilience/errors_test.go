package resilience

import (
	"errors"
	"fmt"
	"testing"
)

func TestLimitErrors_UnwrapToRateLimitExceeded(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"minute", ErrMinuteLimitExceeded},
		{"hour", ErrHourLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrRateLimitExceeded) {
				t.Errorf("errors.Is(%v, ErrRateLimitExceeded) = false, want true", tt.err)
			}
		})
	}
}

func TestLimitErrors_ScopesAreDistinct(t *testing.T) {
	if errors.Is(ErrMinuteLimitExceeded, ErrHourLimitExceeded) {
		t.Error("minute and hour scopes must not match each other")
	}
	if errors.Is(ErrHourLimitExceeded, ErrMinuteLimitExceeded) {
		t.Error("hour and minute scopes must not match each other")
	}
}

func TestLimitErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("calling api: %w", ErrMinuteLimitExceeded)

	if !errors.Is(wrapped, ErrMinuteLimitExceeded) {
		t.Error("wrapped minute error lost its scope")
	}
	if !errors.Is(wrapped, ErrRateLimitExceeded) {
		t.Error("wrapped minute error lost its category")
	}
}

func TestLimitErrors_Messages(t *testing.T) {
	if got := ErrMinuteLimitExceeded.Error(); got != "resilience: minute rate limit exceeded" {
		t.Errorf("minute message = %q", got)
	}
	if got := ErrHourLimitExceeded.Error(); got != "resilience: hour rate limit exceeded" {
		t.Errorf("hour message = %q", got)
	}
}
