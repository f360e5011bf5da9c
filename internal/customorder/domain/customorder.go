package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Custom order statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var (
	ErrOrderNotFound     = errors.New("custom order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAlreadyLinked     = errors.New("order is already linked to an invoice")
)

var transitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ValidStatus reports whether s names a known status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the status machine allows from -> to
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CustomOrder represents a made-to-order request that may later be billed
// through a regular invoice
type CustomOrder struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID  *uuid.UUID      `json:"customer_id" gorm:"type:uuid;index"`
	Description string          `json:"description" gorm:"not null"`
	Details     string          `json:"details"`
	Quote       decimal.Decimal `json:"quote" gorm:"type:numeric(10,2);default:0"`
	Status      string          `json:"status" gorm:"not null;default:'pending';size:20"`
	InvoiceID   *uuid.UUID      `json:"invoice_id" gorm:"type:uuid"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (CustomOrder) TableName() string {
	return "custom_orders"
}

// CustomOrderRepository defines the contract for custom order data access
type CustomOrderRepository interface {
	Create(ctx context.Context, order *CustomOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*CustomOrder, error)
	FindAll(ctx context.Context, status string, limit, offset int) ([]CustomOrder, error)
	Update(ctx context.Context, order *CustomOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}
