package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/customorder/domain"
)

// GormCustomOrderRepository implements CustomOrderRepository using GORM
type GormCustomOrderRepository struct {
	db *gorm.DB
}

// NewGormCustomOrderRepository creates a new GORM custom order repository
func NewGormCustomOrderRepository(db *gorm.DB) *GormCustomOrderRepository {
	return &GormCustomOrderRepository{db: db}
}

func (r *GormCustomOrderRepository) Create(ctx context.Context, order *domain.CustomOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormCustomOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CustomOrder, error) {
	var order domain.CustomOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormCustomOrderRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]domain.CustomOrder, error) {
	var orders []domain.CustomOrder
	q := r.db.WithContext(ctx).Model(&domain.CustomOrder{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

func (r *GormCustomOrderRepository) Update(ctx context.Context, order *domain.CustomOrder) error {
	result := r.db.WithContext(ctx).Save(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *GormCustomOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.CustomOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
