package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vyrodovalexey/go-datadog-otel/internal/observability"
)

// User is the mock user entity.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser creates a mock user.
func (h *Handler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WarnContext(ctx, "user creation failed: invalid payload", observability.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.InfoContext(ctx, "creating new user",
		observability.String("user_name", req.Name),
		observability.String("user_email", req.Email),
	)

	if req.Name == "" {
		h.logger.WarnContext(ctx, "user creation failed: empty name")
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}

	user := User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.InfoContext(ctx, "user created successfully",
		observability.String("user_id", user.ID),
	)
	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a mock user, simulating a database lookup inside a
// nested span.
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	h.logger.InfoContext(ctx, "fetching user", observability.String("user_id", id))

	user, err := h.fetchUserFromDatabase(ctx, id)
	if err != nil {
		return
	}

	h.logger.DebugContext(ctx, "user found", observability.String("user_id", id))
	c.JSON(http.StatusOK, user)
}

// fetchUserFromDatabase simulates a database query with its own span.
func (h *Handler) fetchUserFromDatabase(ctx context.Context, id string) (*User, error) {
	ctx, span := observability.StartSpan(ctx, "fetch_user_from_database")
	defer span.End()

	if err := sleep(ctx, 50*time.Millisecond); err != nil {
		return nil, err
	}

	h.logger.DebugContext(ctx, "querying database for user",
		observability.String("user_id", id),
	)

	return &User{
		ID:        id,
		Name:      "John Doe",
		Email:     "john.doe@example.com",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
