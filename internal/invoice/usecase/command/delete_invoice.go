package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	"github.com/sellhub/pos-backend/internal/invoice/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
)

// DeleteInvoiceCommand represents the command to delete an invoice
type DeleteInvoiceCommand struct {
	InvoiceID uuid.UUID
	UserID    uuid.UUID
}

// DeleteInvoiceHandler handles invoice deletion and its stock reversal
type DeleteInvoiceHandler struct {
	repo    domain.InvoiceRepository
	stock   domain.StockMutator
	auditor audit.Recorder
}

// NewDeleteInvoiceHandler creates a new delete invoice handler
func NewDeleteInvoiceHandler(repo domain.InvoiceRepository, stock domain.StockMutator, auditor audit.Recorder) *DeleteInvoiceHandler {
	return &DeleteInvoiceHandler{repo: repo, stock: stock, auditor: auditor}
}

// Handle executes the delete invoice command. Deletion restores the full
// original quantities, but only when a decrease was actually applied:
// deleting a draft never credits stock. Quantities already refunded are
// restored again on delete; see the refund package for the policy note.
func (h *DeleteInvoiceHandler) Handle(ctx context.Context, cmd DeleteInvoiceCommand) error {
	invoice, err := h.repo.FindByID(ctx, cmd.InvoiceID)
	if err != nil {
		return err
	}

	if invoice.StockApplied {
		if _, err := h.stock.ApplyLineItems(ctx, invoice.StockItems(), stockdomain.IntentIncrease, invoice.InvoiceNo); err != nil {
			return err
		}
	}

	if err := h.repo.Delete(ctx, invoice.ID); err != nil {
		return err
	}

	h.auditor.Record(ctx, "Invoice", auditdomain.ActionDelete, &cmd.UserID, map[string]interface{}{
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status,
	})

	return nil
}
