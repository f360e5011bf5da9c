package command

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/pos/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// OpenDrawerCommand represents the command to open the cash drawer
type OpenDrawerCommand struct {
	OpeningFloat decimal.Decimal
	Note         string
	UserID       uuid.UUID
}

// OpenDrawerHandler handles opening the cash drawer
type OpenDrawerHandler struct {
	events domain.DrawerEventRepository
}

// NewOpenDrawerHandler creates a new open drawer handler
func NewOpenDrawerHandler(events domain.DrawerEventRepository) *OpenDrawerHandler {
	return &OpenDrawerHandler{events: events}
}

// Handle executes the open drawer command. Opening twice without a close in
// between is rejected.
func (h *OpenDrawerHandler) Handle(ctx context.Context, cmd OpenDrawerCommand) (*domain.DrawerEvent, error) {
	last, err := h.events.FindLast(ctx)
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		return nil, err
	}
	if last != nil && last.Opens() {
		return nil, domain.ErrDrawerAlreadyOpen
	}

	event := &domain.DrawerEvent{
		ID:     uuid.New(),
		Kind:   domain.EventOpen,
		Amount: cmd.OpeningFloat,
		Note:   cmd.Note,
		UserID: cmd.UserID,
	}
	if err := h.events.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("user_id", cmd.UserID.String()).
		Str("opening_float", cmd.OpeningFloat.String()).
		Msg("Cash drawer opened")

	return event, nil
}
