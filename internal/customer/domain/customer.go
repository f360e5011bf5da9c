package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer represents a buyer account
type Customer struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string          `json:"name" gorm:"not null;size:100;index"`
	Phone       string          `json:"phone" gorm:"size:30;index"`
	Email       string          `json:"email" gorm:"size:100"`
	Address     string          `json:"address"`
	City        string          `json:"city" gorm:"size:50"`
	CreditLimit decimal.Decimal `json:"credit_limit" gorm:"type:numeric(10,2);default:0"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, limit, offset int) ([]Customer, error)
	Search(ctx context.Context, term string, limit, offset int) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
