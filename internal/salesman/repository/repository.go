package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/salesman/domain"
)

// GormSalesmanRepository implements SalesmanRepository using GORM
type GormSalesmanRepository struct {
	db *gorm.DB
}

// NewGormSalesmanRepository creates a new GORM salesman repository
func NewGormSalesmanRepository(db *gorm.DB) *GormSalesmanRepository {
	return &GormSalesmanRepository{db: db}
}

func (r *GormSalesmanRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Salesman{})
}

func (r *GormSalesmanRepository) Create(ctx context.Context, salesman *domain.Salesman) error {
	if salesman.ID == uuid.Nil {
		salesman.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(salesman).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create salesman: %w", err)
	}
	return nil
}

func (r *GormSalesmanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Salesman, error) {
	var salesman domain.Salesman
	err := r.db.WithContext(ctx).First(&salesman, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSalesmanNotFound
		}
		return nil, fmt.Errorf("failed to find salesman: %w", err)
	}
	return &salesman, nil
}

func (r *GormSalesmanRepository) FindByCode(ctx context.Context, code string) (*domain.Salesman, error) {
	var salesman domain.Salesman
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&salesman).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSalesmanNotFound
		}
		return nil, fmt.Errorf("failed to find salesman by code: %w", err)
	}
	return &salesman, nil
}

func (r *GormSalesmanRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Salesman, error) {
	var salesmen []domain.Salesman
	query := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&salesmen).Error; err != nil {
		return nil, fmt.Errorf("failed to find salesmen: %w", err)
	}
	return salesmen, nil
}

func (r *GormSalesmanRepository) Update(ctx context.Context, salesman *domain.Salesman) error {
	if err := r.db.WithContext(ctx).Save(salesman).Error; err != nil {
		return fmt.Errorf("failed to update salesman: %w", err)
	}
	return nil
}

func (r *GormSalesmanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Salesman{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete salesman: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSalesmanNotFound
	}
	return nil
}

func (r *GormSalesmanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Salesman{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count salesmen: %w", err)
	}
	return count, nil
}
