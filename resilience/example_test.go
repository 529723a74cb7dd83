package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akushsky/digestcore/resilience"
)

func ExampleNewCircuitBreaker() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "openai",
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})

	ctx := context.Background()
	err := cb.Execute(ctx, func(ctx context.Context) error {
		// Simulated successful API call
		return nil
	})

	if err == nil {
		fmt.Println("Call succeeded")
	}
	// Output:
	// Call succeeded
}

func ExampleCircuitBreaker_State() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
	})

	ctx := context.Background()

	fmt.Println("Initial state:", cb.State())

	simulatedErr := errors.New("service unavailable")
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return simulatedErr
		})
	}
	fmt.Println("After failures:", cb.State())

	cb.Reset()
	fmt.Println("After reset:", cb.State())
	// Output:
	// Initial state: closed
	// After failures: open
	// After reset: closed
}

func ExampleNewRateLimiter() {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		RequestsPerMinute: 2,
		RequestsPerHour:   100,
	})

	for i := 0; i < 3; i++ {
		if err := rl.Allow(); err != nil {
			fmt.Println("rejected:", errors.Is(err, resilience.ErrRateLimitExceeded))
			continue
		}
		fmt.Println("admitted")
	}
	// Output:
	// admitted
	// admitted
	// rejected: true
}

func ExampleNewRetry() {
	r := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient failure")
		}
		return nil
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: <nil>
	// attempts: 2
}

func ExampleNewExecutor() {
	// Compose a full protection chain around one outbound dependency.
	exec := resilience.NewExecutor(
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name: "openai",
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
		})),
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{})),
		resilience.WithTimeout(5*time.Second),
	)

	err := exec.Execute(context.Background(), func(ctx context.Context) error {
		// Outbound API call goes here.
		return nil
	})

	fmt.Println("error:", err)
	// Output:
	// error: <nil>
}
