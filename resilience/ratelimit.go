package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// RateLimiterConfig configures the sliding-window rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the admission quota for any 60s window.
	// Default: 60
	RequestsPerMinute int

	// RequestsPerHour is the admission quota for any 3600s window.
	// Default: 1000
	RequestsPerHour int
}

// RateLimiter admits requests against two sliding windows: one minute
// and one hour. Every admitted request is recorded as a timestamp;
// timestamps older than an hour are pruned before every check, so the
// recorded history never grows past the hourly quota.
type RateLimiter struct {
	config RateLimiterConfig

	// now is swapped in tests to roll the windows forward.
	now func() time.Time

	mu         sync.Mutex
	timestamps []time.Time
}

// NewRateLimiter creates a new sliding-window rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.RequestsPerHour <= 0 {
		config.RequestsPerHour = 1000
	}

	return &RateLimiter{
		config: config,
		now:    time.Now,
	}
}

// Allow admits one request or rejects it with a window-scoped error.
// The hour window is checked before the minute window. On admission
// the request is recorded immediately.
func (rl *RateLimiter) Allow() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	if len(rl.timestamps) >= rl.config.RequestsPerHour {
		return ErrHourLimitExceeded
	}
	if rl.countSinceLocked(now.Add(-time.Minute)) >= rl.config.RequestsPerMinute {
		return ErrMinuteLimitExceeded
	}

	rl.timestamps = append(rl.timestamps, now)
	return nil
}

// Wait admits one request, sleeping until the next minute boundary when
// the minute window is exhausted. The check is retried exactly once
// after the sleep; a second rejection propagates. Hour-window
// rejections propagate immediately since waiting out an hourly quota
// is not useful to callers.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	err := rl.Allow()
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrMinuteLimitExceeded) {
		return err
	}

	wait := waitUntilNextMinute(rl.now())

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return rl.Allow()
	}
}

// Execute runs the operation after admission, waiting for the minute
// window to roll when needed.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// RateLimiterStats is a read-only snapshot of both windows.
type RateLimiterStats struct {
	RequestsLastMinute int
	RequestsLastHour   int
	MinuteLimit        int
	HourLimit          int
	MinuteRemaining    int
	HourRemaining      int
}

// Stats returns current usage and remaining quota for both windows.
func (rl *RateLimiter) Stats() RateLimiterStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	minute := rl.countSinceLocked(now.Add(-time.Minute))
	hour := len(rl.timestamps)

	return RateLimiterStats{
		RequestsLastMinute: minute,
		RequestsLastHour:   hour,
		MinuteLimit:        rl.config.RequestsPerMinute,
		HourLimit:          rl.config.RequestsPerHour,
		MinuteRemaining:    max(0, rl.config.RequestsPerMinute-minute),
		HourRemaining:      max(0, rl.config.RequestsPerHour-hour),
	}
}

// pruneLocked drops timestamps older than one hour. Timestamps are
// appended in order, so everything after the first retained index is
// retained too.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-time.Hour)
	i := 0
	for i < len(rl.timestamps) && !rl.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.timestamps = append(rl.timestamps[:0], rl.timestamps[i:]...)
	}
}

func (rl *RateLimiter) countSinceLocked(cutoff time.Time) int {
	n := 0
	for i := len(rl.timestamps) - 1; i >= 0; i-- {
		if !rl.timestamps[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}

// waitUntilNextMinute returns the time remaining until the wall clock
// rolls to the next minute.
func waitUntilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}
