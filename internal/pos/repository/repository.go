package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/pos/domain"
)

// GormDrawerEventRepository implements DrawerEventRepository using GORM
type GormDrawerEventRepository struct {
	db *gorm.DB
}

// NewGormDrawerEventRepository creates a new GORM drawer event repository
func NewGormDrawerEventRepository(db *gorm.DB) *GormDrawerEventRepository {
	return &GormDrawerEventRepository{db: db}
}

func (r *GormDrawerEventRepository) Create(ctx context.Context, event *domain.DrawerEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormDrawerEventRepository) FindLast(ctx context.Context) (*domain.DrawerEvent, error) {
	var event domain.DrawerEvent
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *GormDrawerEventRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.DrawerEvent, error) {
	var events []domain.DrawerEvent
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *GormDrawerEventRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.DrawerEvent, error) {
	var events []domain.DrawerEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, err
}
