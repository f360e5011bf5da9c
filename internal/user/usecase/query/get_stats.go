package query

import (
	"context"
	"fmt"

	"github.com/sellhub/pos-backend/internal/user/domain"
)

// GetStatsQuery represents the query to get user statistics
type GetStatsQuery struct{}

// UserStats represents user statistics
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	AdminCount    int64 `json:"admin_count"`
	CashierCount  int64 `json:"cashier_count"`
	EmployeeCount int64 `json:"employee_count"`
	ActiveUsers   int64 `json:"active_users"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*UserStats, error) {
	total, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	admins, err := h.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}

	cashiers, err := h.repo.CountByRole(ctx, domain.RoleCashier)
	if err != nil {
		return nil, fmt.Errorf("failed to count cashiers: %w", err)
	}

	employees, err := h.repo.CountByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	active, err := h.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	return &UserStats{
		TotalUsers:    total,
		AdminCount:    admins,
		CashierCount:  cashiers,
		EmployeeCount: employees,
		ActiveUsers:   active,
	}, nil
}
