// Package health aggregates component health for the digest backend.
//
// Domain checks cover the resilience core: circuit breaker state (open
// or half-open circuits are degraded, the service keeps running on
// safe defaults), rate limiter quota, and the background task
// processor (stopped is unhealthy, saturated queues are degraded).
// Standard /healthz, /readyz and /health HTTP endpoints are provided
// for probes and operators.
package health
