package command

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/refund/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// ItemInput is one requested refund line
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateRefundCommand represents the command to create a refund
type CreateRefundCommand struct {
	InvoiceID   uuid.UUID
	Items       []ItemInput
	Reason      string
	ProcessedBy uuid.UUID
}

// CreateRefundHandler handles refund creation, validating the refunded
// items against the original sale before crediting stock back
type CreateRefundHandler struct {
	repo     domain.RefundRepository
	invoices invoicedomain.InvoiceRepository
	stock    domain.StockMutator
	auditor  audit.Recorder
}

// NewCreateRefundHandler creates a new create refund handler
func NewCreateRefundHandler(
	repo domain.RefundRepository,
	invoices invoicedomain.InvoiceRepository,
	stock domain.StockMutator,
	auditor audit.Recorder,
) *CreateRefundHandler {
	return &CreateRefundHandler{repo: repo, invoices: invoices, stock: stock, auditor: auditor}
}

// Handle executes the create refund command. Each refunded line must match
// an invoice line by product, and the accumulated refunded quantity across
// all refunds of the invoice can never exceed the quantity sold.
func (h *CreateRefundHandler) Handle(ctx context.Context, cmd CreateRefundCommand) (*domain.Refund, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	invoice, err := h.invoices.FindByID(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.StockApplied {
		return nil, domain.ErrInvoiceNotRefundable
	}

	lines := make(map[uuid.UUID]*invoicedomain.InvoiceItem, len(invoice.Items))
	for i := range invoice.Items {
		lines[invoice.Items[i].ProductID] = &invoice.Items[i]
	}

	refund := &domain.Refund{
		ID:          uuid.New(),
		InvoiceID:   invoice.ID,
		Reason:      cmd.Reason,
		ProcessedBy: cmd.ProcessedBy,
	}

	amount := decimal.Zero
	for _, in := range cmd.Items {
		if in.Quantity <= 0 {
			return nil, stockdomain.ErrInvalidQuantity
		}
		line, ok := lines[in.ProductID]
		if !ok {
			return nil, domain.ErrItemNotOnInvoice
		}
		if line.RefundedQty+in.Quantity > line.Quantity {
			return nil, domain.ErrOverRefund
		}
		refund.Items = append(refund.Items, domain.RefundItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: line.UnitPrice,
		})
		amount = amount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}
	refund.Amount = amount

	if err := h.repo.Create(ctx, refund); err != nil {
		return nil, err
	}

	// The guarded counter update re-validates the cap, so a concurrent
	// refund against the same line cannot push past the sold quantity.
	// On rejection the bumps already applied are released, otherwise the
	// dead refund would pin refundable quantity on those lines.
	for i, item := range refund.Items {
		if err := h.invoices.AddRefundedQty(ctx, invoice.ID, item.ProductID, item.Quantity); err != nil {
			h.discard(ctx, refund, refund.Items[:i])
			if errors.Is(err, invoicedomain.ErrRefundCapExceeded) {
				return nil, domain.ErrOverRefund
			}
			return nil, err
		}
	}

	if _, err := h.stock.ApplyLineItems(ctx, refund.StockItems(), stockdomain.IntentIncrease, refund.Ref()); err != nil {
		h.discard(ctx, refund, refund.Items)
		return nil, err
	}

	h.auditor.Record(ctx, "Refund", auditdomain.ActionCreate, &cmd.ProcessedBy, map[string]interface{}{
		"refund_id":  refund.ID.String(),
		"invoice_id": invoice.ID.String(),
		"amount":     refund.Amount.String(),
		"items":      len(refund.Items),
		"reason":     refund.Reason,
	})

	return refund, nil
}

// discard backs out a refund that failed partway through: the counter bumps
// in applied are released and the refund row is removed. Failures here are
// logged, not returned; the caller already has the error that matters.
func (h *CreateRefundHandler) discard(ctx context.Context, refund *domain.Refund, applied []domain.RefundItem) {
	for _, item := range applied {
		if err := h.invoices.AddRefundedQty(ctx, refund.InvoiceID, item.ProductID, -item.Quantity); err != nil {
			logger.Error(ctx).Err(err).
				Str("invoice_id", refund.InvoiceID.String()).
				Str("product_id", item.ProductID.String()).
				Msg("Failed to release refunded quantity counter")
		}
	}
	if err := h.repo.Delete(ctx, refund.ID); err != nil {
		logger.Error(ctx).Err(err).
			Str("refund_id", refund.ID.String()).
			Msg("Failed to remove rejected refund")
	}
}
