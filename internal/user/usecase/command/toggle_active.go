package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/user/domain"
)

// ToggleActiveCommand represents the command to enable or disable a user
type ToggleActiveCommand struct {
	UserID   uuid.UUID
	IsActive bool
}

// ToggleActiveHandler handles account activation command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.IsActive = cmd.IsActive
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
