package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// Logging returns a middleware that logs every completed request
// through the correlated logger, so request logs carry the dd.*
// trace fields of the surrounding server span.
func Logging(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []observability.Field{
			observability.String("requestID", GetRequestID(c)),
			observability.String("method", c.Request.Method),
			observability.String("path", path),
			observability.String("query", c.Request.URL.RawQuery),
			observability.Int("status", status),
			observability.Duration("latency", latency),
			observability.String("clientIP", c.ClientIP()),
			observability.String("userAgent", c.Request.UserAgent()),
			observability.Int("bodySize", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "request completed", fields...)
		case status >= 400:
			logger.WarnContext(ctx, "request completed", fields...)
		default:
			logger.InfoContext(ctx, "request completed", fields...)
		}
	}
}
