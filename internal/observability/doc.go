// Package observability wires the telemetry core of the service: the
// OpenTelemetry tracer-provider lifecycle, the zap structured logger,
// and the Datadog log/trace correlation between the two.
//
// The package owns three process-wide concerns:
//
//   - The tracer provider: built once at startup from environment
//     configuration, registered as the global OpenTelemetry provider,
//     and explicitly shut down before process exit so buffered spans
//     are flushed to the agent.
//
//   - The structured logger: a zap JSON pipeline installed as the
//     process-global logger exactly once. A second install attempt is
//     a logic error and fails loudly.
//
//   - Correlation: the context-aware Logger resolves the active span
//     of the calling request, converts its identifiers to the decimal
//     64-bit form the Datadog backend joins on, and attaches them
//     together with static service metadata to every log event emitted
//     inside a span. Outside a span the event passes through
//     unmodified.
//
// Initialization must complete before any span or correlated log is
// produced; shutdown must happen after all request handling has
// ceased. Everything in between is safe for concurrent use without
// external locking.
package observability
