package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures the retry executor.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the
	// initial one).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry. Subsequent delays
	// double each attempt.
	// Default: 1 second
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries. One capped policy is
	// used for every retry site: min(BaseDelay * 2^attempt, MaxDelay).
	// Default: 60 seconds
	MaxDelay time.Duration

	// Jitter adds up to 25% randomness to delays to prevent thundering
	// herd.
	// Default: false
	Jitter bool

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry executes operations with bounded exponential backoff. Transient
// failures are retried; the final attempt's error is returned unchanged.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry executor.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 60 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs the operation, retrying on failure until MaxAttempts is
// reached. When composed inside a circuit breaker, the breaker observes
// only the value returned here: intermediate retried failures never
// individually count against the breaker's threshold.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}

		// Last attempt: re-return the original error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		delay := r.delay(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// delay computes the backoff for a zero-based attempt index.
func (r *Retry) delay(attempt int) time.Duration {
	backoff := float64(r.config.BaseDelay) * math.Pow(2, float64(attempt))
	delay := time.Duration(backoff)
	if backoff >= float64(r.config.MaxDelay) {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter && delay > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
