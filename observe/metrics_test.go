package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() = %v, want nil", err)
	}

	meta := TaskMeta{Queue: "critical", Kind: "io"}
	m.RecordExecution(context.Background(), meta, 10*time.Millisecond, nil)
	m.RecordExecution(context.Background(), meta, 10*time.Millisecond, errors.New("boom"))
	m.RecordRetry(context.Background(), meta)
}

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()
	m.RecordExecution(context.Background(), TaskMeta{}, 0, nil)
	m.RecordRetry(context.Background(), TaskMeta{})
}
