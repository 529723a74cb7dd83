// Package resilience provides the fault-isolation primitives used for
// every outbound dependency call: the LLM provider, the messaging bot
// API, and the chat-bridge process.
//
// # Patterns
//
//   - Circuit Breaker: stops calling a failing dependency after a
//     failure threshold, admitting a single recovery probe once the
//     recovery timeout elapses.
//
//   - Rate Limiter: sliding-window admission control with independent
//     per-minute and per-hour quotas.
//
//   - Retry: bounded exponential backoff with a single capped policy,
//     min(base * 2^attempt, cap).
//
//   - Bulkhead: bounds concurrent calls so one dependency cannot
//     exhaust the process.
//
//   - Timeout: per-call deadline for outbound requests.
//
// # Usage
//
// Patterns compose through the Executor; the circuit breaker wraps the
// retry sequence so it observes one outcome per call:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    Name:             "openai",
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  time.Minute,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    BaseDelay:   time.Second,
//	})
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    RequestsPerMinute: 60,
//	    RequestsPerHour:   1000,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithRateLimiter(rl),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return scoreMessage(ctx)
//	})
//
// Callers are expected to degrade gracefully: substitute a safe default
// when Execute returns ErrCircuitOpen or ErrRateLimitExceeded rather
// than failing outright.
package resilience
