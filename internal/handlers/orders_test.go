package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	t.Parallel()

	router, logs := newTestRouter()
	rec, payload := doJSON(t, router, http.MethodPost, "/api/orders",
		`{"user_id":"user-7","items":[
			{"product_id":"p1","quantity":2,"price":10.50},
			{"product_id":"p2","quantity":1,"price":4.25}
		]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-7", payload["user_id"])
	assert.InDelta(t, 25.25, payload["total_amount"].(float64), 1e-9)
	assert.Equal(t, "confirmed", payload["status"])
	assert.NotEmpty(t, payload["order_id"])

	assert.Equal(t, 1, logs.FilterMessage("processing payment").Len())
	assert.Equal(t, 1, logs.FilterMessage("checking inventory").Len())
}

func TestCreateOrderEmptyItems(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, payload := doJSON(t, router, http.MethodPost, "/api/orders",
		`{"user_id":"user-7","items":[]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order must contain at least one item", payload["error"])
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, payload := doJSON(t, router, http.MethodPost, "/api/orders", `not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", payload["error"])
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()
	rec, payload := doJSON(t, router, http.MethodGet, "/api/orders/order-9", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order-9", payload["order_id"])
	assert.Equal(t, "user-123", payload["user_id"])
	assert.InDelta(t, 99.99, payload["total_amount"].(float64), 1e-9)
	assert.Equal(t, "shipped", payload["status"])
}
