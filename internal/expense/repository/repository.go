package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/expense/domain"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GORM expense repository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Expense{})
}

func (r *GormExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return &expense, nil
}

func (r *GormExpenseRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	var expenses []domain.Expense
	query := r.db.WithContext(ctx).Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to find expenses: %w", err)
	}
	return expenses, nil
}

func (r *GormExpenseRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expenses by date range: %w", err)
	}
	return expenses, nil
}

func (r *GormExpenseRepository) TotalsByType(ctx context.Context, from, to time.Time) ([]domain.TypeTotal, error) {
	var rows []struct {
		Type  string
		Total string
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("date >= ? AND date < ?", from, to).
		Group("type").
		Order("type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses by type: %w", err)
	}

	totals := make([]domain.TypeTotal, 0, len(rows))
	for _, row := range rows {
		total, err := decimal.NewFromString(row.Total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense total: %w", err)
		}
		totals = append(totals, domain.TypeTotal{Type: row.Type, Total: total})
	}
	return totals, nil
}

func (r *GormExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	if err := r.db.WithContext(ctx).Save(expense).Error; err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
