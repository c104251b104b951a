package observability

import (
	"context"
	"encoding/binary"
	"strconv"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Datadog correlation field keys. The dd.* namespace is reserved for
// injected fields and never collides with caller-supplied field names.
const (
	FieldTraceID = "dd.trace_id"
	FieldSpanID  = "dd.span_id"
	FieldService = "dd.service"
	FieldEnv     = "dd.env"
	FieldVersion = "dd.version"

	// FieldSpan and FieldSpans carry the current span name and the
	// ordered ancestor list, mirroring the span metadata the backend
	// shows next to each correlated line.
	FieldSpan  = "span"
	FieldSpans = "spans"
)

// ServiceMetadata is the immutable service identity attached to every
// correlated log event. It is captured once at startup and never
// mutated afterwards.
type ServiceMetadata struct {
	Service     string
	Environment string
	Version     string
}

// TraceIDLower reduces a 128-bit OpenTelemetry trace ID to the 64-bit
// value Datadog correlates on: the low-order 8 bytes interpreted as a
// big-endian unsigned integer. This is a fixed truncation, not a hash;
// the agent applies the same reduction on its side, so changing it
// silently breaks correlation.
func TraceIDLower(id trace.TraceID) uint64 {
	return binary.BigEndian.Uint64(id[8:16])
}

// SpanIDUint64 interprets an 8-byte span ID as a big-endian unsigned
// integer.
func SpanIDUint64(id trace.SpanID) uint64 {
	return binary.BigEndian.Uint64(id[:])
}

// FormatTraceID renders a trace ID in the decimal form Datadog expects
// in log fields.
func FormatTraceID(id trace.TraceID) string {
	return strconv.FormatUint(TraceIDLower(id), 10)
}

// FormatSpanID renders a span ID in decimal form.
func FormatSpanID(id trace.SpanID) string {
	return strconv.FormatUint(SpanIDUint64(id), 10)
}

// ActiveSpanContext returns the span context of the innermost active
// span for the calling request, resolved through ctx. The second
// return value is false when there is no active span or the resolved
// context is invalid (the defined "no context" outcome, not an error).
func ActiveSpanContext(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return trace.SpanContext{}, false
	}
	return sc, true
}

// Logger is a context-aware logger that injects Datadog trace
// correlation into every event emitted inside a valid span. Outside a
// span, events pass through to the base zap logger unmodified.
//
// Injection is cheap enough for hot paths: one span lookup on the
// context and one short-lived field slice, no I/O.
type Logger struct {
	base *zap.Logger
	meta ServiceMetadata
}

// NewLogger wraps base with trace-context injection carrying meta.
func NewLogger(base *zap.Logger, meta ServiceMetadata) *Logger {
	return &Logger{base: base, meta: meta}
}

// correlate appends the dd.* correlation fields when ctx carries a
// valid span. Caller fields always come first, so caller-supplied
// values keep precedence.
func (l *Logger) correlate(ctx context.Context, fields []Field) []Field {
	sc, ok := ActiveSpanContext(ctx)
	if !ok {
		return fields
	}

	out := make([]Field, 0, len(fields)+7)
	out = append(out, fields...)
	out = append(out,
		zap.String(FieldTraceID, FormatTraceID(sc.TraceID())),
		zap.String(FieldSpanID, FormatSpanID(sc.SpanID())),
		zap.String(FieldService, l.meta.Service),
		zap.String(FieldEnv, l.meta.Environment),
		zap.String(FieldVersion, l.meta.Version),
	)
	if names := SpanNames(ctx); len(names) > 0 {
		out = append(out,
			zap.String(FieldSpan, names[len(names)-1]),
			zap.Strings(FieldSpans, names),
		)
	}
	return out
}

// DebugContext logs a debug message with trace correlation.
func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.base.Debug(msg, l.correlate(ctx, fields)...)
}

// InfoContext logs an info message with trace correlation.
func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.base.Info(msg, l.correlate(ctx, fields)...)
}

// WarnContext logs a warning message with trace correlation.
func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.base.Warn(msg, l.correlate(ctx, fields)...)
}

// ErrorContext logs an error message with trace correlation.
func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.base.Error(msg, l.correlate(ctx, fields)...)
}

// Info logs an uncorrelated info message (startup, shutdown).
func (l *Logger) Info(msg string, fields ...Field) {
	l.base.Info(msg, fields...)
}

// Warn logs an uncorrelated warning message.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.base.Warn(msg, fields...)
}

// Error logs an uncorrelated error message.
func (l *Logger) Error(msg string, fields ...Field) {
	l.base.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.base.Fatal(msg, fields...)
}

// Zap exposes the underlying zap logger for components that want the
// raw sink without correlation.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

// Meta returns the service metadata attached to correlated events.
func (l *Logger) Meta() ServiceMetadata {
	return l.meta
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
