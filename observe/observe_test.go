package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "digestcore"},
		},
		{
			name: "valid full",
			cfg: Config{
				ServiceName: "digestcore",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
				Logging:     LoggingConfig{Enabled: true, Level: "debug"},
			},
		},
		{
			name: "invalid tracing exporter",
			cfg: Config{
				ServiceName: "digestcore",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "sample pct out of range",
			cfg: Config{
				ServiceName: "digestcore",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "invalid metrics exporter",
			cfg: Config{
				ServiceName: "digestcore",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "invalid log level",
			cfg: Config{
				ServiceName: "digestcore",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems skip validation",
			cfg: Config{
				ServiceName: "digestcore",
				Tracing:     TracingConfig{Enabled: false, Exporter: "jaeger"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "digestcore"})
	if err != nil {
		t.Fatalf("NewObserver() = %v, want nil", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer() = nil, want noop tracer")
	}
	if obs.Meter() == nil {
		t.Error("Meter() = nil, want noop meter")
	}
	if obs.Logger() == nil {
		t.Error("Logger() = nil, want nop logger")
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}

func TestNewObserver_NoneExporters(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "digestcore",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		t.Fatalf("NewObserver() = %v, want nil", err)
	}

	_, span := obs.Tracer().Start(context.Background(), "test.span")
	span.End()

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver() = %v, want ErrMissingServiceName", err)
	}
}
