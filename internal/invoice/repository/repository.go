package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Invoice{}, &domain.InvoiceItem{})
}

func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
	}
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) FindByNo(ctx context.Context, invoiceNo string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Preload("Items").Where("invoice_no = ?", invoiceNo).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by number: %w", err)
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) FindAll(ctx context.Context, customerID *uuid.UUID, limit, offset int) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices by date range: %w", err)
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, stockApplied bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"stock_applied": stockApplied,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update invoice status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete invoice items: %w", err)
		}
		result := tx.Delete(&domain.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete invoice: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvoiceNotFound
		}
		return nil
	})
}

// AddRefundedQty bumps the per-line refunded counter. The guard keeps the
// accumulated refunded quantity within the originally sold quantity even
// under concurrent refunds.
func (r *GormInvoiceRepository) AddRefundedQty(ctx context.Context, invoiceID, productID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE invoice_items
		 SET refunded_qty = refunded_qty + ?
		 WHERE invoice_id = ? AND product_id = ? AND refunded_qty + ? BETWEEN 0 AND quantity`,
		qty, invoiceID, productID, qty,
	)
	if result.Error != nil {
		return fmt.Errorf("failed to update refunded quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRefundCapExceeded
	}
	return nil
}

func (r *GormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

func (r *GormInvoiceRepository) SumTotals(ctx context.Context, statuses []string) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select(`SUM((SELECT COALESCE(SUM(line_total), 0) FROM invoice_items WHERE invoice_items.invoice_id = invoices.id) + taxes - discounts)`).
		Where("status IN ?", statuses).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum invoice totals: %w", err)
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	total, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse invoice total: %w", err)
	}
	return total, nil
}
