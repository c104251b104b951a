package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// unmatchedRoute is the label value for requests that match no
// registered route, keeping metric cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns a middleware that records request count, duration,
// and in-flight gauge for every request.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := m.RequestStarted()

		c.Next()

		done()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.RecordRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
