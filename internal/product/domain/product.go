package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrProductReferenced = errors.New("product is referenced by transaction history")
)

// Product represents a sellable item
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SKU         string          `json:"sku" gorm:"uniqueIndex;not null;size:50"`
	Name        string          `json:"name" gorm:"not null;size:100"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	CostPrice   decimal.Decimal `json:"cost_price" gorm:"type:numeric(10,2);not null"`
	TaxRate     decimal.Decimal `json:"tax_rate" gorm:"type:numeric(5,2);default:0"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:numeric(5,2);default:0"`
	VendorID    *uuid.UUID      `json:"vendor_id" gorm:"type:uuid"`
	StockLevel  int             `json:"stock_level" gorm:"not null;default:0"`
	Barcode     *string         `json:"barcode" gorm:"uniqueIndex;size:50"`
	Category    string          `json:"category" gorm:"size:50"`
	Branch      string          `json:"branch" gorm:"size:50"`
	LimitedQty  bool            `json:"limited_qty" gorm:"default:false"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsAvailable reports whether at least qty units are on hand
func (p *Product) IsAvailable(qty int) bool {
	return p.StockLevel >= qty
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	FindByCategory(ctx context.Context, category string, limit, offset int) ([]Product, error)
	FindBelowStock(ctx context.Context, threshold int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	ReferencedByInvoice(ctx context.Context, id uuid.UUID) (bool, error)
}
