package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	StatusDraft     = "draft"
	StatusIssued    = "issued"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrInvalidStatus     = errors.New("invalid invoice status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemsImmutable    = errors.New("line items are immutable once the invoice leaves draft")
	ErrNoItems           = errors.New("invoice requires at least one line item")

	// ErrRefundCapExceeded is returned when a refunded-quantity update is
	// rejected by the guard: the counter would leave [0, quantity sold].
	ErrRefundCapExceeded = errors.New("refunded quantity update rejected")
)

// transitions is the status machine: draft -> {issued, cancelled},
// issued -> {paid, cancelled}, paid -> {cancelled}. cancelled is terminal.
var transitions = map[string][]string{
	StatusDraft:  {StatusIssued, StatusPaid, StatusCancelled},
	StatusIssued: {StatusPaid, StatusCancelled},
	StatusPaid:   {StatusCancelled},
}

// ValidStatus reports whether s names a known status
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusCancelled:
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

// DecreasesStock reports whether entering this status consumes stock
func DecreasesStock(status string) bool {
	return status == StatusIssued || status == StatusPaid
}

// Invoice is a line-itemized sales transaction
type Invoice struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceNo  string          `json:"invoice_no" gorm:"uniqueIndex;not null;size:40"`
	CustomerID *uuid.UUID      `json:"customer_id" gorm:"type:uuid;index"`
	SalesmanID *uuid.UUID      `json:"salesman_id" gorm:"type:uuid"`
	Items      []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Taxes      decimal.Decimal `json:"taxes" gorm:"type:numeric(10,2);default:0"`
	Discounts  decimal.Decimal `json:"discounts" gorm:"type:numeric(10,2);default:0"`
	Status     string          `json:"status" gorm:"not null;default:'draft';size:20"`
	// StockApplied records whether this invoice has consumed stock, so the
	// decrease happens exactly once and reversal only follows a real decrease
	StockApplied bool      `json:"stock_applied" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one line of an invoice. RefundedQty accumulates across all
// refunds against this line and can never exceed Quantity.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:numeric(10,2);not null"`
	RefundedQty int             `json:"refunded_qty" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Subtotal sums the line totals
func (inv *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}

// Total is subtotal plus taxes minus discounts
func (inv *Invoice) Total() decimal.Decimal {
	return inv.Subtotal().Add(inv.Taxes).Sub(inv.Discounts)
}

// FullyRefunded reports whether every line has been refunded in full
func (inv *Invoice) FullyRefunded() bool {
	if len(inv.Items) == 0 {
		return false
	}
	for _, item := range inv.Items {
		if item.RefundedQty < item.Quantity {
			return false
		}
	}
	return true
}

// InvoiceRepository defines the contract for invoice data access
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNo(ctx context.Context, invoiceNo string) (*Invoice, error)
	FindAll(ctx context.Context, customerID *uuid.UUID, limit, offset int) ([]Invoice, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, stockApplied bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddRefundedQty(ctx context.Context, invoiceID, productID uuid.UUID, qty int) error
	Count(ctx context.Context) (int64, error)
	SumTotals(ctx context.Context, statuses []string) (decimal.Decimal, error)
}
