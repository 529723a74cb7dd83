package health

import (
	"context"
	"fmt"

	"github.com/akushsky/digestcore/resilience"
	"github.com/akushsky/digestcore/taskproc"
)

// CircuitBreakerCheck reports the state of one protected dependency.
// An open or half-open circuit is degraded, not unhealthy: the service
// keeps working on safe defaults while the dependency recovers.
type CircuitBreakerCheck struct {
	breaker *resilience.CircuitBreaker
}

// NewCircuitBreakerCheck creates a checker for the given breaker.
func NewCircuitBreakerCheck(cb *resilience.CircuitBreaker) *CircuitBreakerCheck {
	return &CircuitBreakerCheck{breaker: cb}
}

// Name returns "circuit:<dependency>".
func (c *CircuitBreakerCheck) Name() string {
	return "circuit:" + c.breaker.Name()
}

// Check reports healthy for a closed circuit and degraded otherwise.
func (c *CircuitBreakerCheck) Check(ctx context.Context) Result {
	m := c.breaker.Metrics()

	details := map[string]any{
		"state":     m.State.String(),
		"failures":  m.Failures,
		"successes": m.Successes,
	}

	if m.State != resilience.StateClosed {
		return Degraded(fmt.Sprintf("circuit %s is %s", m.Name, m.State)).WithDetails(details)
	}
	return Healthy("circuit closed").WithDetails(details)
}

// RateLimiterCheck reports remaining admission quota.
type RateLimiterCheck struct {
	limiter *resilience.RateLimiter
}

// NewRateLimiterCheck creates a checker for the given limiter.
func NewRateLimiterCheck(rl *resilience.RateLimiter) *RateLimiterCheck {
	return &RateLimiterCheck{limiter: rl}
}

// Name returns "ratelimiter".
func (c *RateLimiterCheck) Name() string {
	return "ratelimiter"
}

// Check reports degraded when either window has no remaining quota.
func (c *RateLimiterCheck) Check(ctx context.Context) Result {
	stats := c.limiter.Stats()

	details := map[string]any{
		"requests_last_minute": stats.RequestsLastMinute,
		"requests_last_hour":   stats.RequestsLastHour,
		"minute_limit":         stats.MinuteLimit,
		"hour_limit":           stats.HourLimit,
		"minute_remaining":     stats.MinuteRemaining,
		"hour_remaining":       stats.HourRemaining,
	}

	switch {
	case stats.HourRemaining == 0:
		return Degraded("hourly quota exhausted").WithDetails(details)
	case stats.MinuteRemaining == 0:
		return Degraded("minute quota exhausted").WithDetails(details)
	default:
		return Healthy("quota available").WithDetails(details)
	}
}

// ProcessorCheck reports the state of the background task processor.
type ProcessorCheck struct {
	proc *taskproc.Processor

	// queueWarn is the queue depth at which a priority queue counts as
	// saturated.
	queueWarn int
}

// NewProcessorCheck creates a checker for the given processor;
// queueWarn <= 0 defaults to 100.
func NewProcessorCheck(proc *taskproc.Processor, queueWarn int) *ProcessorCheck {
	if queueWarn <= 0 {
		queueWarn = 100
	}
	return &ProcessorCheck{proc: proc, queueWarn: queueWarn}
}

// Name returns "taskproc".
func (c *ProcessorCheck) Name() string {
	return "taskproc"
}

// Check reports unhealthy when the processor is stopped and degraded
// when any priority queue is saturated.
func (c *ProcessorCheck) Check(ctx context.Context) Result {
	stats := c.proc.Stats()

	queueSizes := make(map[string]any, len(stats.QueueSizes))
	saturated := ""
	for pr, size := range stats.QueueSizes {
		queueSizes[pr.String()] = size
		if size >= c.queueWarn && saturated == "" {
			saturated = pr.String()
		}
	}

	details := map[string]any{
		"queue_sizes":            queueSizes,
		"active_tasks":           stats.ActiveCount,
		"completed_tasks":        stats.CompletedCount,
		"failed_tasks":           stats.TotalFailed,
		"avg_processing_time_ms": float64(stats.AvgProcessingTime.Milliseconds()),
	}

	if !stats.Running {
		return Unhealthy("processor is not running", nil).WithDetails(details)
	}
	if saturated != "" {
		return Degraded(fmt.Sprintf("queue %s is saturated", saturated)).WithDetails(details)
	}
	return Healthy("processor running").WithDetails(details)
}
