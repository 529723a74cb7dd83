// Package config loads the backend settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the resilience core. Values mirror the
// deployment environment; all have working defaults so a bare process
// starts with sane limits.
type Config struct {
	// Task processor.
	MaxWorkers        int           `env:"MAX_WORKERS" envDefault:"10"`
	MaxProcessWorkers int           `env:"MAX_PROCESS_WORKERS" envDefault:"4"`
	QueueSize         int           `env:"TASK_QUEUE_SIZE" envDefault:"256"`
	RetryMaxDelay     time.Duration `env:"TASK_RETRY_MAX_DELAY" envDefault:"60s"`

	// Outbound API admission control.
	RequestsPerMinute int `env:"API_REQUESTS_PER_MINUTE" envDefault:"60"`
	RequestsPerHour   int `env:"API_REQUESTS_PER_HOUR" envDefault:"1000"`

	// Circuit breaker.
	FailureThreshold int           `env:"CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	RecoveryTimeout  time.Duration `env:"CIRCUIT_RECOVERY_TIMEOUT" envDefault:"60s"`

	// Retry policy for outbound calls.
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`

	// Telemetry.
	ServiceName     string  `env:"SERVICE_NAME" envDefault:"digestcore"`
	LogLevel        string  `env:"LOG_LEVEL" envDefault:"info"`
	TracingExporter string  `env:"TRACING_EXPORTER" envDefault:"none"`
	MetricsExporter string  `env:"METRICS_EXPORTER" envDefault:"none"`
	TraceSamplePct  float64 `env:"TRACE_SAMPLE_PCT" envDefault:"1.0"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
