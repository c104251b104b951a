package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanNamesNesting(t *testing.T) {
	newTestTracer(t)

	ctx := context.Background()
	assert.Empty(t, SpanNames(ctx))
	assert.Empty(t, CurrentSpanName(ctx))

	ctx, outer := StartSpan(ctx, "request")
	defer outer.End()
	assert.Equal(t, []string{"request"}, SpanNames(ctx))
	assert.Equal(t, "request", CurrentSpanName(ctx))

	inner, innerSpan := StartSpan(ctx, "database")
	defer innerSpan.End()
	assert.Equal(t, []string{"request", "database"}, SpanNames(inner))
	assert.Equal(t, "database", CurrentSpanName(inner))

	// The parent context is untouched by the nested span.
	assert.Equal(t, []string{"request"}, SpanNames(ctx))
}

func TestSpanNamesSiblingIsolation(t *testing.T) {
	newTestTracer(t)

	root, rootSpan := StartSpan(context.Background(), "root")
	defer rootSpan.End()

	left, leftSpan := StartSpan(root, "left")
	defer leftSpan.End()
	right, rightSpan := StartSpan(root, "right")
	defer rightSpan.End()

	assert.Equal(t, []string{"root", "left"}, SpanNames(left))
	assert.Equal(t, []string{"root", "right"}, SpanNames(right))
}

func TestStartSpanProducesValidContext(t *testing.T) {
	newTestTracer(t)

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()

	sc, ok := ActiveSpanContext(ctx)
	require.True(t, ok)
	assert.True(t, sc.TraceID().IsValid())
	assert.True(t, sc.SpanID().IsValid())
}
