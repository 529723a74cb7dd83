package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akushsky/digestcore/resilience"
	"github.com/akushsky/digestcore/taskproc"
)

func TestCircuitBreakerCheck(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "openai",
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})
	check := NewCircuitBreakerCheck(cb)

	if check.Name() != "circuit:openai" {
		t.Errorf("Name() = %q, want circuit:openai", check.Name())
	}

	result := check.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("closed circuit status = %v, want healthy", result.Status)
	}
	if result.Details["state"] != "closed" {
		t.Errorf("state detail = %v, want closed", result.Details["state"])
	}

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})

	result = check.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("open circuit status = %v, want degraded", result.Status)
	}
	if result.Details["state"] != "open" {
		t.Errorf("state detail = %v, want open", result.Details["state"])
	}
}

func TestRateLimiterCheck(t *testing.T) {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		RequestsPerMinute: 2,
		RequestsPerHour:   100,
	})
	check := NewRateLimiterCheck(rl)

	if check.Name() != "ratelimiter" {
		t.Errorf("Name() = %q, want ratelimiter", check.Name())
	}

	result := check.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("fresh limiter status = %v, want healthy", result.Status)
	}

	_ = rl.Allow()
	_ = rl.Allow()

	result = check.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("exhausted window status = %v, want degraded", result.Status)
	}
	if result.Details["minute_remaining"] != 0 {
		t.Errorf("minute_remaining = %v, want 0", result.Details["minute_remaining"])
	}
}

func TestProcessorCheck(t *testing.T) {
	proc := taskproc.NewProcessor(taskproc.Config{})
	check := NewProcessorCheck(proc, 0)

	if check.Name() != "taskproc" {
		t.Errorf("Name() = %q, want taskproc", check.Name())
	}

	// Not started yet.
	result := check.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("stopped processor status = %v, want unhealthy", result.Status)
	}

	if err := proc.Start(); err != nil {
		t.Fatalf("Start() = %v, want nil", err)
	}
	defer proc.Stop()

	result = check.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("running processor status = %v, want healthy", result.Status)
	}
	if _, ok := result.Details["queue_sizes"]; !ok {
		t.Error("details missing queue_sizes")
	}
}

func TestProcessorCheck_SaturatedQueue(t *testing.T) {
	proc := taskproc.NewProcessor(taskproc.Config{QueueSize: 4})
	if err := proc.Start(); err != nil {
		t.Fatalf("Start() = %v, want nil", err)
	}
	defer proc.Stop()

	blocker := make(chan struct{})
	defer close(blocker)

	// Block the normal consumer, then pile up tasks past the warn mark.
	if _, err := proc.Submit(func(ctx context.Context) (any, error) {
		<-blocker
		return nil, nil
	}); err != nil {
		t.Fatalf("Submit() = %v, want nil", err)
	}
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if _, err := proc.Submit(func(ctx context.Context) (any, error) {
			return nil, nil
		}); err != nil {
			t.Fatalf("Submit() = %v, want nil", err)
		}
	}

	check := NewProcessorCheck(proc, 2)
	result := check.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("saturated queue status = %v, want degraded", result.Status)
	}
}
