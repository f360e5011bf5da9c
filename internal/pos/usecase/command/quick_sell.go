package command

import (
	"context"

	"github.com/google/uuid"

	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	invoicecommand "github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// SaleItem is one product line of a quick sale
type SaleItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// QuickSellCommand represents the command to ring up a sale at the counter
type QuickSellCommand struct {
	CustomerID *uuid.UUID
	SalesmanID *uuid.UUID
	Items      []SaleItem
	UserID     uuid.UUID
}

// QuickSellHandler turns a counter sale into an issued invoice. The
// availability pre-check gives the cashier a fast rejection before the
// invoice path runs; the coordinator remains the authority on stock.
type QuickSellHandler struct {
	products      productdomain.ProductRepository
	createInvoice *invoicecommand.CreateInvoiceHandler
}

// NewQuickSellHandler creates a new quick sell handler
func NewQuickSellHandler(
	products productdomain.ProductRepository,
	createInvoice *invoicecommand.CreateInvoiceHandler,
) *QuickSellHandler {
	return &QuickSellHandler{products: products, createInvoice: createInvoice}
}

// Handle executes the quick sell command
func (h *QuickSellHandler) Handle(ctx context.Context, cmd QuickSellCommand) (*invoicedomain.Invoice, error) {
	if len(cmd.Items) == 0 {
		return nil, invoicedomain.ErrNoItems
	}

	items := make([]invoicecommand.ItemInput, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		if item.Quantity <= 0 {
			return nil, stockdomain.ErrInvalidQuantity
		}
		product, err := h.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsAvailable(item.Quantity) {
			return nil, stockdomain.ErrInsufficientStock
		}
		items = append(items, invoicecommand.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	invoice, err := h.createInvoice.Handle(ctx, invoicecommand.CreateInvoiceCommand{
		CustomerID: cmd.CustomerID,
		SalesmanID: cmd.SalesmanID,
		Items:      items,
		Status:     invoicedomain.StatusIssued,
		UserID:     cmd.UserID,
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("invoice_no", invoice.InvoiceNo).
		Int("items", len(invoice.Items)).
		Str("total", invoice.Total().String()).
		Msg("Quick sale completed")

	return invoice, nil
}
