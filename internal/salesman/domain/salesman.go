package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSalesmanNotFound = errors.New("salesman not found")
	ErrDuplicateCode    = errors.New("salesman code already exists")
)

// Salesman represents a commissioned seller
type Salesman struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Code           string          `json:"code" gorm:"uniqueIndex;not null;size:20"`
	Name           string          `json:"name" gorm:"not null;size:100"`
	Phone          string          `json:"phone" gorm:"size:30"`
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:numeric(5,2);default:0"`
	IsActive       bool            `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Salesman) TableName() string {
	return "salesmen"
}

// SalesmanRepository defines the contract for salesman data access
type SalesmanRepository interface {
	Create(ctx context.Context, salesman *Salesman) error
	FindByID(ctx context.Context, id uuid.UUID) (*Salesman, error)
	FindByCode(ctx context.Context, code string) (*Salesman, error)
	FindAll(ctx context.Context, limit, offset int) ([]Salesman, error)
	Update(ctx context.Context, salesman *Salesman) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
