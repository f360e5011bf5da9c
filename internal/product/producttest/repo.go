// Package producttest provides an in-memory ProductRepository for tests.
package producttest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/product/domain"
)

// FakeRepository keeps products in a map keyed by id.
type FakeRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product

	// Referenced marks product ids that ReferencedByInvoice reports true for.
	Referenced map[uuid.UUID]bool
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		products:   make(map[uuid.UUID]*domain.Product),
		Referenced: make(map[uuid.UUID]bool),
	}
}

// Seed stores a product, assigning an id when missing, and returns it.
func (f *FakeRepository) Seed(product domain.Product) *domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = &product
	return &product
}

func (f *FakeRepository) Create(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for _, existing := range f.products {
		if existing.SKU == product.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	stored := *product
	f.products[product.ID] = &stored
	return nil
}

func (f *FakeRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := *product
	return &out, nil
}

func (f *FakeRepository) FindBySKU(_ context.Context, sku string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, product := range f.products {
		if product.SKU == sku {
			out := *product
			return &out, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *FakeRepository) FindByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, product := range f.products {
		if product.Barcode != nil && *product.Barcode == barcode {
			out := *product
			return &out, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *FakeRepository) FindAll(_ context.Context, limit, offset int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Product
	for _, product := range f.products {
		out = append(out, *product)
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeRepository) FindByCategory(_ context.Context, category string, limit, offset int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Product
	for _, product := range f.products {
		if product.Category == category {
			out = append(out, *product)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	_ = offset
	return out, nil
}

func (f *FakeRepository) FindBelowStock(_ context.Context, threshold int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Product
	for _, product := range f.products {
		if product.StockLevel < threshold {
			out = append(out, *product)
		}
	}
	return out, nil
}

// Update mirrors the repository contract: the stock level belongs to the
// mutation path and is never written back from the caller's copy.
func (f *FakeRepository) Update(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	stored := *product
	stored.StockLevel = existing.StockLevel
	stored.CreatedAt = existing.CreatedAt
	f.products[product.ID] = &stored
	return nil
}

// SetStock adjusts the stored quantity directly, standing in for the
// coordinator's guarded column update in tests.
func (f *FakeRepository) SetStock(id uuid.UUID, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if product, ok := f.products[id]; ok {
		product.StockLevel = qty
	}
}

func (f *FakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *FakeRepository) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func (f *FakeRepository) ReferencedByInvoice(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Referenced[id], nil
}
