package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  uint32  `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderRequest is the payload for creating an order.
type OrderRequest struct {
	UserID string      `json:"user_id"`
	Items  []OrderItem `json:"items"`
}

// OrderResponse is the mock order entity.
type OrderResponse struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// CreateOrder creates a mock order, simulating payment and inventory
// checks as nested spans.
func (h *Handler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WarnContext(ctx, "order creation failed: invalid payload", observability.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.InfoContext(ctx, "creating new order",
		observability.String("user_id", req.UserID),
		observability.Int("item_count", len(req.Items)),
	)

	if len(req.Items) == 0 {
		h.logger.WarnContext(ctx, "order creation failed: no items")
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must contain at least one item"})
		return
	}

	var totalAmount float64
	for _, item := range req.Items {
		totalAmount += item.Price * float64(item.Quantity)
	}

	if err := h.processPayment(ctx, req.UserID, totalAmount); err != nil {
		return
	}
	if err := h.checkInventory(ctx, req.Items); err != nil {
		return
	}

	order := OrderResponse{
		OrderID:     uuid.New().String(),
		UserID:      req.UserID,
		TotalAmount: totalAmount,
		Status:      "confirmed",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.InfoContext(ctx, "order created successfully",
		observability.String("order_id", order.OrderID),
		observability.Float64("total_amount", totalAmount),
	)
	c.JSON(http.StatusCreated, order)
}

// processPayment simulates a payment gateway call.
func (h *Handler) processPayment(ctx context.Context, userID string, amount float64) error {
	ctx, span := observability.StartSpan(ctx, "process_payment")
	defer span.End()

	h.logger.InfoContext(ctx, "processing payment",
		observability.String("user_id", userID),
		observability.Float64("amount", amount),
	)

	if err := sleep(ctx, 100*time.Millisecond); err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "payment processed successfully")
	return nil
}

// checkInventory simulates an inventory check.
func (h *Handler) checkInventory(ctx context.Context, items []OrderItem) error {
	ctx, span := observability.StartSpan(ctx, "check_inventory")
	defer span.End()

	h.logger.InfoContext(ctx, "checking inventory",
		observability.Int("item_count", len(items)),
	)

	if err := sleep(ctx, 75*time.Millisecond); err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "inventory check completed")
	return nil
}

// GetOrder fetches a mock order.
func (h *Handler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	h.logger.InfoContext(ctx, "fetching order", observability.String("order_id", id))

	if err := sleep(ctx, 50*time.Millisecond); err != nil {
		return
	}

	order := OrderResponse{
		OrderID:     id,
		UserID:      "user-123",
		TotalAmount: 99.99,
		Status:      "shipped",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.DebugContext(ctx, "order found", observability.String("order_id", id))
	c.JSON(http.StatusOK, order)
}
