package query

import (
	"context"

	"github.com/sellhub/pos-backend/internal/user/domain"
)

// ListUsersQuery represents the query to list users
type ListUsersQuery struct {
	Role   string // Optional role filter
	Limit  int
	Offset int
}

// ListUsersHandler handles list user queries
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) ([]domain.User, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Role != "" {
		return h.repo.FindByRole(ctx, q.Role, q.Limit, q.Offset)
	}
	return h.repo.FindAll(ctx, q.Limit, q.Offset)
}
