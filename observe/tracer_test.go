package observe

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTracer_StartAndEndSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := NewTracer(tp.Tracer("test"))

	ctx, span := tracer.StartSpan(context.Background(), TaskMeta{Queue: "high", Kind: "cpu"})
	if ctx == nil {
		t.Fatal("StartSpan() returned nil context")
	}
	if span == nil {
		t.Fatal("StartSpan() returned nil span")
	}

	tracer.EndSpan(span, nil)
}

func TestTracer_EndSpanWithError(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := NewTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), TaskMeta{Queue: "low", Kind: "io"})
	tracer.EndSpan(span, errors.New("task failed"))
}

func TestTracer_EndSpanNil(t *testing.T) {
	tracer := NewTracer(sdktrace.NewTracerProvider().Tracer("test"))

	// Must not panic.
	tracer.EndSpan(nil, errors.New("orphan error"))
}
