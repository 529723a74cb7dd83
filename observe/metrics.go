package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TaskMeta identifies a unit of background work for telemetry purposes.
type TaskMeta struct {
	Queue string // priority queue name: low|normal|high|critical
	Kind  string // work kind: inline|io|cpu
}

// attrs returns the otel attributes for this meta.
func (m TaskMeta) attrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("task.queue", m.Queue),
		attribute.String("task.kind", m.Kind),
	}
}

// Metrics records background task execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one execution attempt with its duration
	// and error status.
	RecordExecution(ctx context.Context, meta TaskMeta, duration time.Duration, err error)

	// RecordRetry records one re-enqueue of a failed task.
	RecordRetry(ctx context.Context, meta TaskMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"task.exec.total",
		metric.WithDescription("Total number of task execution attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"task.exec.errors",
		metric.WithDescription("Total number of failed task execution attempts"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"task.exec.retries",
		metric.WithDescription("Total number of task re-enqueues after failure"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"task.exec.duration_ms",
		metric.WithDescription("Task execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta TaskMeta, duration time.Duration, err error) {
	opts := metric.WithAttributes(meta.attrs()...)

	m.totalCount.Add(ctx, 1, opts)
	if err != nil {
		m.errorCount.Add(ctx, 1, opts)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opts)
}

func (m *metricsImpl) RecordRetry(ctx context.Context, meta TaskMeta) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(meta.attrs()...))
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) RecordExecution(ctx context.Context, meta TaskMeta, duration time.Duration, err error) {
}
func (nopMetrics) RecordRetry(ctx context.Context, meta TaskMeta) {}
