package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/refund/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
)

// DeleteRefundCommand represents the command to delete a refund
type DeleteRefundCommand struct {
	RefundID uuid.UUID
	UserID   uuid.UUID
}

// DeleteRefundHandler handles refund deletion. This is a compensating
// action, not a true undo: the matching stock decrease is applied with the
// negative override, so it can drive stock negative when other activity
// happened since the refund was created.
type DeleteRefundHandler struct {
	repo     domain.RefundRepository
	invoices invoicedomain.InvoiceRepository
	stock    domain.StockMutator
	auditor  audit.Recorder
}

// NewDeleteRefundHandler creates a new delete refund handler
func NewDeleteRefundHandler(
	repo domain.RefundRepository,
	invoices invoicedomain.InvoiceRepository,
	stock domain.StockMutator,
	auditor audit.Recorder,
) *DeleteRefundHandler {
	return &DeleteRefundHandler{repo: repo, invoices: invoices, stock: stock, auditor: auditor}
}

// Handle executes the delete refund command
func (h *DeleteRefundHandler) Handle(ctx context.Context, cmd DeleteRefundCommand) error {
	refund, err := h.repo.FindByID(ctx, cmd.RefundID)
	if err != nil {
		return err
	}

	muts := make([]stockdomain.Mutation, 0, len(refund.Items))
	for _, item := range refund.Items {
		muts = append(muts, stockdomain.Mutation{
			ProductID:     item.ProductID,
			Delta:         -item.Quantity,
			Kind:          stockdomain.KindOut,
			Ref:           refund.Ref(),
			AllowNegative: true,
		})
	}
	if _, err := h.stock.ApplyMutations(ctx, muts); err != nil {
		return err
	}

	for _, item := range refund.Items {
		if err := h.invoices.AddRefundedQty(ctx, refund.InvoiceID, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}

	if err := h.repo.Delete(ctx, refund.ID); err != nil {
		return err
	}

	h.auditor.Record(ctx, "Refund", auditdomain.ActionDelete, &cmd.UserID, map[string]interface{}{
		"refund_id":  refund.ID.String(),
		"invoice_id": refund.InvoiceID.String(),
	})

	return nil
}
