package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
)

// MarkPaidCommand represents the command to mark an issued invoice as paid
type MarkPaidCommand struct {
	InvoiceID uuid.UUID
	UserID    uuid.UUID
}

// MarkPaidHandler handles marking invoices as paid
type MarkPaidHandler struct {
	update *UpdateStatusHandler
}

// NewMarkPaidHandler creates a new mark paid handler
func NewMarkPaidHandler(update *UpdateStatusHandler) *MarkPaidHandler {
	return &MarkPaidHandler{update: update}
}

// Handle executes the mark paid command. Only issued invoices can be paid;
// the transition itself has no stock effect because the decrease happened
// at issue time.
func (h *MarkPaidHandler) Handle(ctx context.Context, cmd MarkPaidCommand) (*domain.Invoice, error) {
	return h.update.Handle(ctx, UpdateStatusCommand{
		InvoiceID: cmd.InvoiceID,
		Status:    domain.StatusPaid,
		UserID:    cmd.UserID,
	})
}
