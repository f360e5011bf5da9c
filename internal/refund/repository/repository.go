package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/refund/domain"
)

// GormRefundRepository implements RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GORM refund repository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

func (r *GormRefundRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Refund{}, &domain.RefundItem{})
}

func (r *GormRefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	for i := range refund.Items {
		if refund.Items[i].ID == uuid.Nil {
			refund.Items[i].ID = uuid.New()
		}
		refund.Items[i].RefundID = refund.ID
	}
	if err := r.db.WithContext(ctx).Create(refund).Error; err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Refund, error) {
	var refund domain.Refund
	err := r.db.WithContext(ctx).Preload("Items").First(&refund, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to find refund: %w", err)
	}
	return &refund, nil
}

func (r *GormRefundRepository) FindAll(ctx context.Context, invoiceID *uuid.UUID, limit, offset int) ([]domain.Refund, error) {
	var refunds []domain.Refund
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if invoiceID != nil {
		query = query.Where("invoice_id = ?", *invoiceID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&refunds).Error; err != nil {
		return nil, fmt.Errorf("failed to find refunds: %w", err)
	}
	return refunds, nil
}

func (r *GormRefundRepository) SumAmounts(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw struct {
		Total string
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Refund{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum refund amounts: %w", err)
	}
	total, err := decimal.NewFromString(raw.Total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse refund total: %w", err)
	}
	return total, nil
}

func (r *GormRefundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.RefundItem{}, "refund_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete refund items: %w", err)
		}
		result := tx.Delete(&domain.Refund{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete refund: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrRefundNotFound
		}
		return nil
	})
}
