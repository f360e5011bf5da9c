package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
)

// ListInvoicesQuery represents the query to list invoices
type ListInvoicesQuery struct {
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

// ListInvoicesHandler handles list invoice queries
type ListInvoicesHandler struct {
	repo domain.InvoiceRepository
}

// NewListInvoicesHandler creates a new list invoices handler
func NewListInvoicesHandler(repo domain.InvoiceRepository) *ListInvoicesHandler {
	return &ListInvoicesHandler{repo: repo}
}

// Handle executes the list invoices query
func (h *ListInvoicesHandler) Handle(ctx context.Context, q ListInvoicesQuery) ([]domain.Invoice, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return h.repo.FindAll(ctx, q.CustomerID, q.Limit, q.Offset)
}
