// Package handlers implements the demo HTTP endpoints. The business
// logic is deliberately mock (fixed delays, hardcoded responses); the
// endpoints exist to exercise tracing and log correlation, including
// nested spans for simulated downstream work.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	logger  *observability.Logger
	version string
}

// New creates a Handler.
func New(logger *observability.Logger, version string) *Handler {
	return &Handler{
		logger:  logger,
		version: version,
	}
}

// Register registers all routes on the given router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/users", h.CreateUser)
	api.GET("/users/:id", h.GetUser)
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/simulate-error", h.SimulateError)
	api.GET("/slow-operation", h.SlowOperation)
	api.GET("/database-query", h.DatabaseQuery)
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Root returns the endpoint catalog.
func (h *Handler) Root(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.InfoContext(ctx, "root endpoint called")

	c.JSON(http.StatusOK, gin.H{
		"message": "Datadog OpenTelemetry correlation demo API",
		"version": h.version,
		"endpoints": []string{
			"GET /health",
			"POST /api/users",
			"GET /api/users/:id",
			"POST /api/orders",
			"GET /api/orders/:id",
			"GET /api/simulate-error?error_type=<type>",
			"GET /api/slow-operation",
			"GET /api/database-query",
		},
	})
}

// Health reports service health.
func (h *Handler) Health(c *gin.Context) {
	h.logger.InfoContext(c.Request.Context(), "health check called")

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// sleep simulates work for the given duration. It returns early with
// the context error when the request is cancelled, so a disconnected
// client never keeps a worker busy.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
