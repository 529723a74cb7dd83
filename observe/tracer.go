package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps OpenTelemetry tracing with task-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a task execution attempt.
	StartSpan(ctx context.Context, meta TaskMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with task metadata as attributes.
// Span name format: task.exec.<queue>.
func (t *tracerImpl) StartSpan(ctx context.Context, meta TaskMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("task.queue", meta.Queue),
		attribute.String("task.kind", meta.Kind),
	}

	return t.tracer.Start(ctx, "task.exec."+meta.Queue,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span, marking its status from the error.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("task.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
