// Package observe provides telemetry for the digest backend: a
// structured JSON logger with field redaction, OpenTelemetry tracing
// and metrics, and an instrumentation middleware for background task
// execution. Chat message content is never written to logs.
package observe
