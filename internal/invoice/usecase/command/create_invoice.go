package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	"github.com/sellhub/pos-backend/internal/invoice/domain"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// ItemInput is one requested line of a new invoice. UnitPrice overrides the
// product's list price when set.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// CreateInvoiceCommand represents the command to create an invoice
type CreateInvoiceCommand struct {
	CustomerID *uuid.UUID
	SalesmanID *uuid.UUID
	Items      []ItemInput
	Taxes      decimal.Decimal
	Discounts  decimal.Decimal
	Status     string
	UserID     uuid.UUID
}

// CreateInvoiceHandler handles invoice creation, including the stock
// decrease when the invoice is born issued or paid
type CreateInvoiceHandler struct {
	repo     domain.InvoiceRepository
	products productdomain.ProductRepository
	stock    domain.StockMutator
	auditor  audit.Recorder
}

// NewCreateInvoiceHandler creates a new create invoice handler
func NewCreateInvoiceHandler(
	repo domain.InvoiceRepository,
	products productdomain.ProductRepository,
	stock domain.StockMutator,
	auditor audit.Recorder,
) *CreateInvoiceHandler {
	return &CreateInvoiceHandler{repo: repo, products: products, stock: stock, auditor: auditor}
}

// Handle executes the create invoice command. An invoice created directly
// in issued or paid status decreases stock for every line item as one
// all-or-nothing unit; if any item lacks stock, no invoice row survives.
func (h *CreateInvoiceHandler) Handle(ctx context.Context, cmd CreateInvoiceCommand) (*domain.Invoice, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrNoItems
	}
	if cmd.Status == "" {
		cmd.Status = domain.StatusDraft
	}
	if !domain.ValidStatus(cmd.Status) || cmd.Status == domain.StatusCancelled {
		return nil, domain.ErrInvalidStatus
	}

	invoice := &domain.Invoice{
		ID:         uuid.New(),
		InvoiceNo:  NewInvoiceNo(),
		CustomerID: cmd.CustomerID,
		SalesmanID: cmd.SalesmanID,
		Taxes:      cmd.Taxes,
		Discounts:  cmd.Discounts,
		Status:     cmd.Status,
	}

	for _, in := range cmd.Items {
		if in.Quantity <= 0 {
			return nil, stockdomain.ErrInvalidQuantity
		}
		product, err := h.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		price := product.UnitPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: price,
			LineTotal: price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		})
	}

	if err := h.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if domain.DecreasesStock(cmd.Status) {
		_, err := h.stock.ApplyLineItems(ctx, invoice.StockItems(), stockdomain.IntentDecrease, invoice.InvoiceNo)
		if err != nil {
			// The coordinator applied nothing, so removing the invoice row
			// restores the pre-call state.
			if delErr := h.repo.Delete(ctx, invoice.ID); delErr != nil {
				logger.Error(ctx).
					Err(delErr).
					Str("invoice_no", invoice.InvoiceNo).
					Msg("Failed to remove invoice after stock rejection")
			}
			return nil, err
		}
		invoice.StockApplied = true
		if err := h.repo.UpdateStatus(ctx, invoice.ID, invoice.Status, true); err != nil {
			return nil, err
		}
	}

	h.auditor.Record(ctx, "Invoice", auditdomain.ActionCreate, &cmd.UserID, map[string]interface{}{
		"invoice_id": invoice.ID.String(),
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status,
		"items":      len(invoice.Items),
		"total":      invoice.Total().String(),
	})

	return invoice, nil
}

// NewInvoiceNo generates a unique human-readable invoice number
func NewInvoiceNo() string {
	return fmt.Sprintf("INV-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]),
	)
}
