package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/user/domain"
)

// GetUserQuery represents the query to fetch one user
type GetUserQuery struct {
	ID uuid.UUID
}

// GetUserHandler handles get user queries
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*domain.User, error) {
	return h.repo.FindByID(ctx, q.ID)
}
