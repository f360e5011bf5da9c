package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/vendors/domain"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GORM vendor repository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

func (r *GormVendorRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Vendor{})
}

func (r *GormVendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	return &vendor, nil
}

func (r *GormVendorRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	query := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to find vendors: %w", err)
	}
	return vendors, nil
}

func (r *GormVendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	if err := r.db.WithContext(ctx).Save(vendor).Error; err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vendor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *GormVendorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Vendor{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vendors: %w", err)
	}
	return count, nil
}
