package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// setupTracingTest registers a recording tracer provider globally and
// returns the recorder.
func setupTracingTest(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func findAttribute(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingCreatesServerSpan(t *testing.T) {
	recorder := setupTracingTest(t)

	router := gin.New()
	router.Use(RequestID(), Tracing())
	router.GET("/api/users/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/42", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "GET /api/users/42", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())

	method, ok := findAttribute(span.Attributes(), "http.method")
	require.True(t, ok)
	assert.Equal(t, "GET", method.AsString())

	status, ok := findAttribute(span.Attributes(), "http.status_code")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusOK, status.AsInt64())

	requestID, ok := findAttribute(span.Attributes(), "request.id")
	require.True(t, ok)
	assert.NotEmpty(t, requestID.AsString())
}

func TestTracingHandlerSeesActiveSpan(t *testing.T) {
	setupTracingTest(t)

	router := gin.New()
	router.Use(Tracing())

	var names []string
	var valid bool
	router.GET("/test", func(c *gin.Context) {
		ctx := c.Request.Context()
		names = observability.SpanNames(ctx)
		_, valid = observability.ActiveSpanContext(ctx)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.True(t, valid)
	assert.Equal(t, []string{"GET /test"}, names)
}

func TestTracingJoinsUpstreamTrace(t *testing.T) {
	recorder := setupTracingTest(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}

func TestTracingMarksServerErrors(t *testing.T) {
	recorder := setupTracingTest(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	errAttr, ok := findAttribute(spans[0].Attributes(), "error")
	require.True(t, ok)
	assert.True(t, errAttr.AsBool())
}
