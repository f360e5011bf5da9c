package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock/domain"
)

// GormLedgerRepository implements LedgerRepository using GORM. The quantity
// update is a compare-and-swap on the products row, so two concurrent
// decrements can never both observe the same starting quantity.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM ledger repository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.StockEntry{})
}

func (r *GormLedgerRepository) Apply(ctx context.Context, mut domain.Mutation) (int, error) {
	qtys, err := r.ApplyAll(ctx, []domain.Mutation{mut})
	if err != nil {
		return 0, err
	}
	return qtys[0], nil
}

func (r *GormLedgerRepository) ApplyAll(ctx context.Context, muts []domain.Mutation) ([]int, error) {
	qtys := make([]int, len(muts))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, mut := range muts {
			qty, err := applyOne(tx, mut)
			if err != nil {
				return err
			}
			qtys[i] = qty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qtys, nil
}

// applyOne performs the guarded quantity update and the ledger insert inside
// the caller's transaction.
func applyOne(tx *gorm.DB, mut domain.Mutation) (int, error) {
	res := tx.Exec(
		`UPDATE products
		 SET stock_level = stock_level + ?, updated_at = NOW()
		 WHERE id = ? AND (? OR stock_level + ? >= 0)`,
		mut.Delta, mut.ProductID, mut.AllowNegative, mut.Delta,
	)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to adjust stock level: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&productdomain.Product{}).Where("id = ?", mut.ProductID).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to check product existence: %w", err)
		}
		if count == 0 {
			return 0, productdomain.ErrProductNotFound
		}
		if mut.Delta < 0 {
			return 0, domain.ErrInsufficientStock
		}
		return 0, domain.ErrConcurrentModification
	}

	var newQty int
	if err := tx.Model(&productdomain.Product{}).
		Select("stock_level").
		Where("id = ?", mut.ProductID).
		Scan(&newQty).Error; err != nil {
		return 0, fmt.Errorf("failed to read stock level: %w", err)
	}

	entry := &domain.StockEntry{
		ID:        uuid.New(),
		ProductID: mut.ProductID,
		Qty:       mut.Delta,
		Kind:      mut.Kind,
		Location:  mut.Location,
		Batch:     mut.Batch,
		Expiry:    mut.Expiry,
		Ref:       mut.Ref,
	}
	if err := tx.Create(entry).Error; err != nil {
		return 0, fmt.Errorf("failed to append stock entry: %w", err)
	}

	return newQty, nil
}

func (r *GormLedgerRepository) Quantity(ctx context.Context, productID uuid.UUID) (int, error) {
	var product productdomain.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, productdomain.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read product quantity: %w", err)
	}
	return product.StockLevel, nil
}

// SumDeltas reconstructs the quantity from the ledger, used to verify the
// ledger-sum invariant against stock_level.
func (r *GormLedgerRepository) SumDeltas(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum *int
	err := r.db.WithContext(ctx).
		Model(&domain.StockEntry{}).
		Select("SUM(qty)").
		Where("product_id = ?", productID).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger deltas: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.StockEntry, error) {
	var entry domain.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find stock entry: %w", err)
	}
	return &entry, nil
}

func (r *GormLedgerRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.StockEntry, error) {
	var entries []domain.StockEntry
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find stock entries: %w", err)
	}
	return entries, nil
}

func (r *GormLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]domain.StockEntry, error) {
	var entries []domain.StockEntry
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find stock entries by product: %w", err)
	}
	return entries, nil
}
