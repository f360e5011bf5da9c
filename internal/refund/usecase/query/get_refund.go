package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/refund/domain"
)

// GetRefundQuery represents the query to fetch one refund
type GetRefundQuery struct {
	RefundID uuid.UUID
}

// GetRefundHandler handles get refund queries
type GetRefundHandler struct {
	repo domain.RefundRepository
}

// NewGetRefundHandler creates a new get refund handler
func NewGetRefundHandler(repo domain.RefundRepository) *GetRefundHandler {
	return &GetRefundHandler{repo: repo}
}

// Handle executes the get refund query
func (h *GetRefundHandler) Handle(ctx context.Context, q GetRefundQuery) (*domain.Refund, error) {
	return h.repo.FindByID(ctx, q.RefundID)
}
