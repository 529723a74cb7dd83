package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is blocking all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the protected dependency (e.g. "openai", "telegram").
	// It is reported in metrics and state-change callbacks.
	Name string

	// FailureThreshold is the number of consecutive expected failures
	// before opening the circuit.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before a
	// recovery probe is admitted.
	// Default: 60 seconds
	RecoveryTimeout time.Duration

	// HalfOpenMaxProbes is the max in-flight probes allowed in
	// half-open state.
	// Default: 1
	HalfOpenMaxProbes int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(name string, from, to State)

	// IsFailure determines if an error counts toward the failure
	// threshold. Errors it rejects propagate without touching counters
	// or state.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker isolates a failing dependency. One breaker is created
// per protected dependency at startup, shared by all callers, and lives
// for the process lifetime.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
	probes      int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Name returns the name of the protected dependency.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs the operation through the circuit breaker. It returns
// ErrCircuitOpen without executing the operation when the circuit is
// open and the recovery timeout has not elapsed; otherwise it executes
// the operation, records the outcome, and returns the operation's
// error unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.probes = 0

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probes >= cb.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		cb.probes++
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// A finished half-open probe gives its slot back. Without this the
	// slot leaks when the probe returns an unexpected error and the
	// breaker stays half-open rejecting everything.
	if cb.state == StateHalfOpen && cb.probes > 0 {
		cb.probes--
	}

	// Errors rejected by the predicate are unexpected: they propagate
	// to the caller but never move the state machine.
	if err != nil && !cb.config.IsFailure(err) {
		return
	}

	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if err != nil {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.state = StateOpen
			}
		} else {
			cb.failures = 0
			cb.successes++
		}

	case StateHalfOpen:
		if err != nil {
			// Failed probe reopens immediately and restarts the
			// recovery timeout.
			cb.failures++
			cb.lastFailure = time.Now()
			cb.state = StateOpen
		} else {
			cb.failures = 0
			cb.successes++
			cb.state = StateClosed
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, oldState, cb.state)
	}
}

// currentStateLocked lazily transitions OPEN to HALF_OPEN once the
// recovery timeout has elapsed since the last recorded failure.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.probes = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(cb.config.Name, StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// Metrics returns a snapshot of the circuit breaker counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		Name:        cb.config.Name,
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	Name        string
	State       State
	Failures    int
	Successes   int
	LastFailure time.Time
}
