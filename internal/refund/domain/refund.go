package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/stock"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
)

var (
	ErrRefundNotFound       = errors.New("refund not found")
	ErrInvoiceNotRefundable = errors.New("invoice has no applied stock to refund")
	ErrItemNotOnInvoice     = errors.New("refunded item is not on the invoice")
	ErrOverRefund           = errors.New("refunded quantity exceeds sold quantity")
	ErrNoItems              = errors.New("refund requires at least one line item")
)

// Refund reverses some or all line items of a sales transaction
type Refund struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;not null;index"`
	Items       []RefundItem    `json:"items" gorm:"foreignKey:RefundID;constraint:OnDelete:CASCADE"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Reason      string          `json:"reason" gorm:"not null"`
	ProcessedBy uuid.UUID       `json:"processed_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (Refund) TableName() string {
	return "refunds"
}

// RefundItem is one refunded line, a subset of the original invoice line
type RefundItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	RefundID  uuid.UUID       `json:"refund_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
}

// TableName specifies the table name
func (RefundItem) TableName() string {
	return "refund_items"
}

// Ref is the traceability reference written to the stock ledger
func (r *Refund) Ref() string {
	return "refund:" + r.ID.String()
}

// StockItems converts refund lines to coordinator line items
func (r *Refund) StockItems() []stock.LineItem {
	items := make([]stock.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, stock.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items
}

// RefundRepository defines the contract for refund data access
type RefundRepository interface {
	Create(ctx context.Context, refund *Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	FindAll(ctx context.Context, invoiceID *uuid.UUID, limit, offset int) ([]Refund, error)
	SumAmounts(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMutator is the slice of the stock mutation coordinator refunds need:
// line-item credits on creation and explicit compensating mutations on
// deletion (which may legitimately drive stock negative).
type StockMutator interface {
	ApplyLineItems(ctx context.Context, items []stock.LineItem, intent, ref string) ([]int, error)
	ApplyMutations(ctx context.Context, muts []stockdomain.Mutation) ([]int, error)
}
