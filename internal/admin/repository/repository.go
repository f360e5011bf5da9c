package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/admin/domain"
)

// GormSettingsRepository implements SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GORM settings repository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row, creating the default row on first access
func (r *GormSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := domain.DefaultSettings()
			if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
				return nil, err
			}
			return defaults, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *GormSettingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}
