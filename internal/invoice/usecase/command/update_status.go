package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	"github.com/sellhub/pos-backend/internal/invoice/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
)

// UpdateStatusCommand represents the command to move an invoice through its
// lifecycle
type UpdateStatusCommand struct {
	InvoiceID uuid.UUID
	Status    string
	UserID    uuid.UUID
}

// UpdateStatusHandler handles invoice status transitions and their stock
// side effects
type UpdateStatusHandler struct {
	repo    domain.InvoiceRepository
	stock   domain.StockMutator
	auditor audit.Recorder
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(repo domain.InvoiceRepository, stock domain.StockMutator, auditor audit.Recorder) *UpdateStatusHandler {
	return &UpdateStatusHandler{repo: repo, stock: stock, auditor: auditor}
}

// Handle executes the status transition. Entering issued or paid decreases
// stock exactly once; entering cancelled reverses the decrease if one was
// applied. A rejected stock decrease leaves the invoice in its prior status.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Invoice, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, domain.ErrInvalidStatus
	}

	invoice, err := h.repo.FindByID(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(invoice.Status, cmd.Status) {
		return nil, domain.ErrInvalidTransition
	}

	stockApplied := invoice.StockApplied

	switch {
	case domain.DecreasesStock(cmd.Status) && !invoice.StockApplied:
		if _, err := h.stock.ApplyLineItems(ctx, invoice.StockItems(), stockdomain.IntentDecrease, invoice.InvoiceNo); err != nil {
			return nil, err
		}
		stockApplied = true

	case cmd.Status == domain.StatusCancelled && invoice.StockApplied:
		if _, err := h.stock.ApplyLineItems(ctx, invoice.StockItems(), stockdomain.IntentIncrease, invoice.InvoiceNo); err != nil {
			return nil, err
		}
		stockApplied = false
	}

	if err := h.repo.UpdateStatus(ctx, invoice.ID, cmd.Status, stockApplied); err != nil {
		return nil, err
	}

	h.auditor.Record(ctx, "Invoice", auditdomain.ActionUpdate, &cmd.UserID, map[string]interface{}{
		"invoice_id": invoice.ID.String(),
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status + " -> " + cmd.Status,
	})

	invoice.Status = cmd.Status
	invoice.StockApplied = stockApplied
	return invoice, nil
}
