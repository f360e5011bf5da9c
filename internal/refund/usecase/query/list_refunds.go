package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/refund/domain"
)

// ListRefundsQuery represents the query to list refunds
type ListRefundsQuery struct {
	InvoiceID *uuid.UUID
	Limit     int
	Offset    int
}

// ListRefundsHandler handles list refund queries
type ListRefundsHandler struct {
	repo domain.RefundRepository
}

// NewListRefundsHandler creates a new list refunds handler
func NewListRefundsHandler(repo domain.RefundRepository) *ListRefundsHandler {
	return &ListRefundsHandler{repo: repo}
}

// Handle executes the list refunds query
func (h *ListRefundsHandler) Handle(ctx context.Context, q ListRefundsQuery) ([]domain.Refund, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return h.repo.FindAll(ctx, q.InvoiceID, q.Limit, q.Offset)
}
