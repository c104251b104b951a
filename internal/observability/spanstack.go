package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the instrumentation name used for spans started
// through this package.
const DefaultTracerName = "go-datadog-otel"

type spanNamesKey struct{}

// withSpanName pushes a span name onto the context-scoped name stack.
// The stack is copied, never mutated in place: sibling goroutines
// holding the parent context must not observe each other's spans.
func withSpanName(ctx context.Context, name string) context.Context {
	prev, _ := ctx.Value(spanNamesKey{}).([]string)
	names := make([]string, len(prev)+1)
	copy(names, prev)
	names[len(prev)] = name
	return context.WithValue(ctx, spanNamesKey{}, names)
}

// SpanNames returns the ordered ancestor list of span names for the
// calling request, outermost first, ending with the current span. Nil
// outside any span started through StartSpan.
func SpanNames(ctx context.Context) []string {
	names, _ := ctx.Value(spanNamesKey{}).([]string)
	return names
}

// CurrentSpanName returns the innermost span name, or "" outside a
// span.
func CurrentSpanName(ctx context.Context) string {
	names := SpanNames(ctx)
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// StartSpan starts a span through the globally registered tracer
// provider and records its name on the context so correlated log
// events can report the current span and its ancestry. Callers must
// end the span and use the returned context for all nested work.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(DefaultTracerName)
	ctx, span := tracer.Start(ctx, name, opts...)
	return withSpanName(ctx, name), span
}
