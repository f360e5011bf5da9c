package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
)

// DuplicateBillQuery represents the query for a reprint of an existing bill
type DuplicateBillQuery struct {
	InvoiceNo string
}

// DuplicateBill is a printable copy of an invoice, marked so the reprint is
// distinguishable from the original
type DuplicateBill struct {
	Invoice     *invoicedomain.Invoice `json:"invoice"`
	Subtotal    decimal.Decimal        `json:"subtotal"`
	Total       decimal.Decimal        `json:"total"`
	Duplicate   bool                   `json:"duplicate"`
	ReprintedAt time.Time              `json:"reprinted_at"`
}

// DuplicateBillHandler handles duplicate bill queries
type DuplicateBillHandler struct {
	invoices invoicedomain.InvoiceRepository
}

// NewDuplicateBillHandler creates a new duplicate bill handler
func NewDuplicateBillHandler(invoices invoicedomain.InvoiceRepository) *DuplicateBillHandler {
	return &DuplicateBillHandler{invoices: invoices}
}

// Handle executes the duplicate bill query
func (h *DuplicateBillHandler) Handle(ctx context.Context, q DuplicateBillQuery) (*DuplicateBill, error) {
	invoice, err := h.invoices.FindByNo(ctx, q.InvoiceNo)
	if err != nil {
		return nil, err
	}
	return &DuplicateBill{
		Invoice:     invoice,
		Subtotal:    invoice.Subtotal(),
		Total:       invoice.Total(),
		Duplicate:   true,
		ReprintedAt: time.Now(),
	}, nil
}
