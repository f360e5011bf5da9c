package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
)

// GetInvoiceQuery represents the query to fetch one invoice
type GetInvoiceQuery struct {
	InvoiceID uuid.UUID
}

// GetInvoiceHandler handles get invoice queries
type GetInvoiceHandler struct {
	repo domain.InvoiceRepository
}

// NewGetInvoiceHandler creates a new get invoice handler
func NewGetInvoiceHandler(repo domain.InvoiceRepository) *GetInvoiceHandler {
	return &GetInvoiceHandler{repo: repo}
}

// Handle executes the get invoice query
func (h *GetInvoiceHandler) Handle(ctx context.Context, q GetInvoiceQuery) (*domain.Invoice, error) {
	return h.repo.FindByID(ctx, q.InvoiceID)
}
