// Package invoicetest provides an in-memory InvoiceRepository for tests.
package invoicetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
)

// FakeRepository keeps invoices in a map and mirrors the guard semantics of
// the database repository, including the refunded-quantity cap.
type FakeRepository struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*domain.Invoice
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

func (f *FakeRepository) Create(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
	}
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt

	f.invoices[invoice.ID] = clone(invoice)
	return nil
}

func (f *FakeRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	invoice, ok := f.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return clone(invoice), nil
}

func (f *FakeRepository) FindByNo(_ context.Context, invoiceNo string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, invoice := range f.invoices {
		if invoice.InvoiceNo == invoiceNo {
			return clone(invoice), nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (f *FakeRepository) FindAll(_ context.Context, customerID *uuid.UUID, limit, offset int) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Invoice
	for _, invoice := range f.invoices {
		if customerID != nil && (invoice.CustomerID == nil || *invoice.CustomerID != *customerID) {
			continue
		}
		out = append(out, *clone(invoice))
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

func (f *FakeRepository) FindByDateRange(_ context.Context, from, to time.Time) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Invoice
	for _, invoice := range f.invoices {
		if !invoice.CreatedAt.Before(from) && invoice.CreatedAt.Before(to) {
			out = append(out, *clone(invoice))
		}
	}
	return out, nil
}

func (f *FakeRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string, stockApplied bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	invoice, ok := f.invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	invoice.Status = status
	invoice.StockApplied = stockApplied
	invoice.UpdatedAt = time.Now()
	return nil
}

func (f *FakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.invoices[id]; !ok {
		return domain.ErrInvoiceNotFound
	}
	delete(f.invoices, id)
	return nil
}

func (f *FakeRepository) AddRefundedQty(_ context.Context, invoiceID, productID uuid.UUID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	for i := range invoice.Items {
		item := &invoice.Items[i]
		if item.ProductID != productID {
			continue
		}
		next := item.RefundedQty + qty
		if next < 0 || next > item.Quantity {
			return domain.ErrRefundCapExceeded
		}
		item.RefundedQty = next
		return nil
	}
	return domain.ErrRefundCapExceeded
}

func (f *FakeRepository) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.invoices)), nil
}

func (f *FakeRepository) SumTotals(_ context.Context, statuses []string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sum := decimal.Zero
	for _, invoice := range f.invoices {
		for _, status := range statuses {
			if invoice.Status == status {
				sum = sum.Add(invoice.Total())
				break
			}
		}
	}
	return sum, nil
}

func clone(invoice *domain.Invoice) *domain.Invoice {
	out := *invoice
	out.Items = make([]domain.InvoiceItem, len(invoice.Items))
	copy(out.Items, invoice.Items)
	return &out
}
