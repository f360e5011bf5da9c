package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrExpenseNotFound = errors.New("expense not found")

// Expense represents an operating cost entry
type Expense struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type      string          `json:"type" gorm:"not null;size:50;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Date      time.Time       `json:"date" gorm:"not null;index"`
	Note      string          `json:"note"`
	CreatedBy uuid.UUID       `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Expense) TableName() string {
	return "expenses"
}

// TypeTotal is one row of the totals-by-type report
type TypeTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseRepository defines the contract for expense data access
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, limit, offset int) ([]Expense, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	TotalsByType(ctx context.Context, from, to time.Time) ([]TypeTotal, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
