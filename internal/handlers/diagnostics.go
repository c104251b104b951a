package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// SimulateError returns a simulated failure selected by the
// error_type query parameter.
func (h *Handler) SimulateError(c *gin.Context) {
	ctx := c.Request.Context()

	errorType := c.Query("error_type")
	if errorType == "" {
		errorType = "generic"
	}

	h.logger.ErrorContext(ctx, "simulating error",
		observability.String("error_type", errorType),
	)

	switch errorType {
	case "timeout":
		h.logger.WarnContext(ctx, "simulating timeout error")
		if err := sleep(ctx, 30*time.Second); err != nil {
			return
		}
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request timeout"})
	case "server":
		h.logger.ErrorContext(ctx, "simulating internal server error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	case "database":
		h.logger.ErrorContext(ctx, "simulating database connection error")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database connection failed"})
	default:
		h.logger.ErrorContext(ctx, "simulating generic error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
	}
}

// SlowOperation simulates a multi-step slow unit of work with a
// per-step debug log.
func (h *Handler) SlowOperation(c *gin.Context) {
	ctx := c.Request.Context()

	h.logger.InfoContext(ctx, "starting slow operation")

	for i := 1; i <= 5; i++ {
		h.logger.DebugContext(ctx, "processing step", observability.Int("step", i))
		if err := sleep(ctx, 200*time.Millisecond); err != nil {
			return
		}
	}

	h.logger.InfoContext(ctx, "slow operation completed")

	c.JSON(http.StatusOK, gin.H{
		"message":     "slow operation completed",
		"duration_ms": 1000,
	})
}

// DatabaseQuery simulates a complex query built from several nested
// traced operations.
func (h *Handler) DatabaseQuery(c *gin.Context) {
	ctx := c.Request.Context()

	h.logger.InfoContext(ctx, "executing database query")

	if err := h.queryUsersTable(ctx); err != nil {
		return
	}
	if err := h.queryOrdersTable(ctx); err != nil {
		return
	}
	if err := h.joinUserOrders(ctx); err != nil {
		return
	}

	h.logger.InfoContext(ctx, "database query completed")

	c.JSON(http.StatusOK, gin.H{
		"message": "database query completed",
		"results": 42,
	})
}

func (h *Handler) queryUsersTable(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "query_users_table")
	defer span.End()

	h.logger.DebugContext(ctx, "querying users table")
	return sleep(ctx, 80*time.Millisecond)
}

func (h *Handler) queryOrdersTable(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "query_orders_table")
	defer span.End()

	h.logger.DebugContext(ctx, "querying orders table")
	return sleep(ctx, 120*time.Millisecond)
}

func (h *Handler) joinUserOrders(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "join_user_orders")
	defer span.End()

	h.logger.DebugContext(ctx, "joining user and order data")
	return sleep(ctx, 150*time.Millisecond)
}
