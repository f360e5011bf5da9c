// Package stocktest provides an in-memory ledger for exercising the stock
// mutation coordinator and the transaction lifecycles without a database.
package stocktest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock/domain"
)

// FakeLedger implements domain.LedgerRepository with the same guarded
// compare-and-swap semantics as the GORM implementation: the quantity update
// and the ledger append happen under one lock, and a batch either fully
// applies or leaves nothing behind.
type FakeLedger struct {
	mu       sync.Mutex
	Products map[uuid.UUID]int
	Entries  []domain.StockEntry
}

// NewFakeLedger creates an empty fake ledger
func NewFakeLedger() *FakeLedger {
	return &FakeLedger{Products: make(map[uuid.UUID]int)}
}

// Seed registers a product with a starting quantity and the matching
// initial ledger entry
func (f *FakeLedger) Seed(productID uuid.UUID, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Products[productID] = qty
	if qty != 0 {
		f.Entries = append(f.Entries, domain.StockEntry{
			ID:        uuid.New(),
			ProductID: productID,
			Qty:       qty,
			Kind:      domain.KindIn,
			Ref:       "seed",
			CreatedAt: time.Now(),
		})
	}
}

func (f *FakeLedger) Apply(ctx context.Context, mut domain.Mutation) (int, error) {
	qtys, err := f.ApplyAll(ctx, []domain.Mutation{mut})
	if err != nil {
		return 0, err
	}
	return qtys[0], nil
}

func (f *FakeLedger) ApplyAll(_ context.Context, muts []domain.Mutation) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate the whole batch before touching anything, mirroring the
	// transactional rollback of the real repository.
	projected := make(map[uuid.UUID]int)
	for _, mut := range muts {
		current, ok := f.Products[mut.ProductID]
		if !ok {
			return nil, productdomain.ErrProductNotFound
		}
		if prev, seen := projected[mut.ProductID]; seen {
			current = prev
		}
		next := current + mut.Delta
		if next < 0 && !mut.AllowNegative {
			if mut.Delta < 0 {
				return nil, domain.ErrInsufficientStock
			}
			return nil, domain.ErrConcurrentModification
		}
		projected[mut.ProductID] = next
	}

	qtys := make([]int, len(muts))
	for i, mut := range muts {
		f.Products[mut.ProductID] += mut.Delta
		qtys[i] = f.Products[mut.ProductID]
		f.Entries = append(f.Entries, domain.StockEntry{
			ID:        uuid.New(),
			ProductID: mut.ProductID,
			Qty:       mut.Delta,
			Kind:      mut.Kind,
			Ref:       mut.Ref,
			CreatedAt: time.Now(),
		})
	}
	return qtys, nil
}

func (f *FakeLedger) Quantity(_ context.Context, productID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.Products[productID]
	if !ok {
		return 0, productdomain.ErrProductNotFound
	}
	return qty, nil
}

func (f *FakeLedger) SumDeltas(_ context.Context, productID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, e := range f.Entries {
		if e.ProductID == productID {
			sum += e.Qty
		}
	}
	return sum, nil
}

func (f *FakeLedger) FindByID(_ context.Context, id uuid.UUID) (*domain.StockEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			entry := f.Entries[i]
			return &entry, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (f *FakeLedger) FindAll(_ context.Context, limit, offset int) ([]domain.StockEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.StockEntry(nil), f.Entries...)
	return page(out, limit, offset), nil
}

func (f *FakeLedger) FindByProduct(_ context.Context, productID uuid.UUID, limit, offset int) ([]domain.StockEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StockEntry
	for _, e := range f.Entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return page(out, limit, offset), nil
}

// EntriesFor returns the non-seed ledger entries for a product
func (f *FakeLedger) EntriesFor(productID uuid.UUID) []domain.StockEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StockEntry
	for _, e := range f.Entries {
		if e.ProductID == productID && e.Ref != "seed" {
			out = append(out, e)
		}
	}
	return out
}

func page(entries []domain.StockEntry, limit, offset int) []domain.StockEntry {
	if offset >= len(entries) {
		return nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
