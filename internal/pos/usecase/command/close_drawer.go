package command

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/pos/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// CloseDrawerCommand represents the command to close the cash drawer
type CloseDrawerCommand struct {
	CountedCash decimal.Decimal
	Note        string
	UserID      uuid.UUID
}

// CloseDrawerHandler handles closing the cash drawer
type CloseDrawerHandler struct {
	events domain.DrawerEventRepository
}

// NewCloseDrawerHandler creates a new close drawer handler
func NewCloseDrawerHandler(events domain.DrawerEventRepository) *CloseDrawerHandler {
	return &CloseDrawerHandler{events: events}
}

// Handle executes the close drawer command. The drawer must be open.
func (h *CloseDrawerHandler) Handle(ctx context.Context, cmd CloseDrawerCommand) (*domain.DrawerEvent, error) {
	last, err := h.events.FindLast(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrDrawerNotOpen
		}
		return nil, err
	}
	if !last.Opens() {
		return nil, domain.ErrDrawerNotOpen
	}

	event := &domain.DrawerEvent{
		ID:     uuid.New(),
		Kind:   domain.EventClose,
		Amount: cmd.CountedCash,
		Note:   cmd.Note,
		UserID: cmd.UserID,
	}
	if err := h.events.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("user_id", cmd.UserID.String()).
		Str("counted_cash", cmd.CountedCash.String()).
		Msg("Cash drawer closed")

	return event, nil
}
