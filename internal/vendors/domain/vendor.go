package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrVendorNotFound = errors.New("vendor not found")

// Vendor represents a supplier
type Vendor struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100;index"`
	ContactName string    `json:"contact_name" gorm:"size:100"`
	Phone       string    `json:"phone" gorm:"size:30"`
	Email       string    `json:"email" gorm:"size:100"`
	Address     string    `json:"address"`
	Terms       string    `json:"terms" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Vendor) TableName() string {
	return "vendors"
}

// VendorRepository defines the contract for vendor data access
type VendorRepository interface {
	Create(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, limit, offset int) ([]Vendor, error)
	Update(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
