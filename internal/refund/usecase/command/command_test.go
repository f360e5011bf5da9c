package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/audit"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/invoice/invoicetest"
	invoicecommand "github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/product/producttest"
	"github.com/sellhub/pos-backend/internal/refund/domain"
	"github.com/sellhub/pos-backend/internal/stock"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/stock/stocktest"
	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("refund-command-test", false)
	m.Run()
}

type fakeRefundRepository struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*domain.Refund
}

func newFakeRefundRepository() *fakeRefundRepository {
	return &fakeRefundRepository{refunds: make(map[uuid.UUID]*domain.Refund)}
}

func (f *fakeRefundRepository) Create(_ context.Context, refund *domain.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	for i := range refund.Items {
		if refund.Items[i].ID == uuid.Nil {
			refund.Items[i].ID = uuid.New()
		}
		refund.Items[i].RefundID = refund.ID
	}
	stored := *refund
	stored.Items = append([]domain.RefundItem(nil), refund.Items...)
	f.refunds[refund.ID] = &stored
	return nil
}

func (f *fakeRefundRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	refund, ok := f.refunds[id]
	if !ok {
		return nil, domain.ErrRefundNotFound
	}
	out := *refund
	out.Items = append([]domain.RefundItem(nil), refund.Items...)
	return &out, nil
}

func (f *fakeRefundRepository) FindAll(_ context.Context, invoiceID *uuid.UUID, limit, offset int) ([]domain.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Refund
	for _, refund := range f.refunds {
		if invoiceID != nil && refund.InvoiceID != *invoiceID {
			continue
		}
		out = append(out, *refund)
	}
	_ = limit
	_ = offset
	return out, nil
}

func (f *fakeRefundRepository) SumAmounts(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := decimal.Zero
	for _, refund := range f.refunds {
		if refund.CreatedAt.Before(from) || !refund.CreatedAt.Before(to) {
			continue
		}
		total = total.Add(refund.Amount)
	}
	return total, nil
}

func (f *fakeRefundRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.refunds[id]; !ok {
		return domain.ErrRefundNotFound
	}
	delete(f.refunds, id)
	return nil
}

type failingStockMutator struct{ err error }

func (f failingStockMutator) ApplyLineItems(context.Context, []stock.LineItem, string, string) ([]int, error) {
	return nil, f.err
}

func (f failingStockMutator) ApplyMutations(context.Context, []stockdomain.Mutation) ([]int, error) {
	return nil, f.err
}

type failingCounterRepo struct {
	invoicedomain.InvoiceRepository
	err error
}

func (r failingCounterRepo) AddRefundedQty(context.Context, uuid.UUID, uuid.UUID, int) error {
	return r.err
}

type fixture struct {
	invoices      *invoicetest.FakeRepository
	products      *producttest.FakeRepository
	refunds       *fakeRefundRepository
	ledger        *stocktest.FakeLedger
	createInvoice *invoicecommand.CreateInvoiceHandler
	deleteInvoice *invoicecommand.DeleteInvoiceHandler
	createRefund  *CreateRefundHandler
	deleteRefund  *DeleteRefundHandler
}

func newFixture() *fixture {
	invoices := invoicetest.NewFakeRepository()
	products := producttest.NewFakeRepository()
	refunds := newFakeRefundRepository()
	ledger := stocktest.NewFakeLedger()
	coord := stock.NewCoordinator(ledger, nil)
	auditor := audit.NopRecorder{}

	return &fixture{
		invoices:      invoices,
		products:      products,
		refunds:       refunds,
		ledger:        ledger,
		createInvoice: invoicecommand.NewCreateInvoiceHandler(invoices, products, coord, auditor),
		deleteInvoice: invoicecommand.NewDeleteInvoiceHandler(invoices, coord, auditor),
		createRefund:  NewCreateRefundHandler(refunds, invoices, coord, auditor),
		deleteRefund:  NewDeleteRefundHandler(refunds, invoices, coord, auditor),
	}
}

// sell seeds a product with startQty on hand and creates an issued invoice
// for soldQty units of it.
func (f *fixture) sell(t *testing.T, startQty, soldQty int) (*productdomain.Product, *invoicedomain.Invoice) {
	t.Helper()

	product := f.products.Seed(productdomain.Product{
		SKU:       "SKU-" + uuid.New().String()[:8],
		Name:      "Widget",
		UnitPrice: decimal.NewFromInt(25),
	})
	f.ledger.Seed(product.ID, startQty)

	invoice, err := f.createInvoice.Handle(context.Background(), invoicecommand.CreateInvoiceCommand{
		Items:  []invoicecommand.ItemInput{{ProductID: product.ID, Quantity: soldQty}},
		Status: invoicedomain.StatusIssued,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return product, invoice
}

func (f *fixture) quantity(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	qty, err := f.ledger.Quantity(context.Background(), productID)
	if err != nil {
		t.Fatalf("Quantity: %v", err)
	}
	return qty
}

func TestCreateRefundCreditsStock(t *testing.T) {
	f := newFixture()
	product, invoice := f.sell(t, 10, 4)

	refund, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create refund: %v", err)
	}

	if qty := f.quantity(t, product.ID); qty != 8 {
		t.Fatalf("got quantity %d, want 8", qty)
	}
	if !refund.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("got amount %s, want 50", refund.Amount)
	}

	stored, err := f.invoices.FindByID(context.Background(), invoice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Items[0].RefundedQty != 2 {
		t.Fatalf("got refunded_qty %d, want 2", stored.Items[0].RefundedQty)
	}

	entries := f.ledger.EntriesFor(product.ID)
	last := entries[len(entries)-1]
	if last.Qty != 2 || last.Ref != refund.Ref() {
		t.Fatalf("unexpected credit entry: %+v", last)
	}
}

func TestOverRefundRejected(t *testing.T) {
	f := newFixture()
	product, invoice := f.sell(t, 10, 4)

	if _, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	// Only one unit remains refundable; asking for two must fail as a whole.
	_, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
		Reason:      "changed mind",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, domain.ErrOverRefund) {
		t.Fatalf("expected ErrOverRefund, got %v", err)
	}

	if qty := f.quantity(t, product.ID); qty != 9 {
		t.Fatalf("rejected refund changed stock: got %d, want 9", qty)
	}
	stored, _ := f.invoices.FindByID(context.Background(), invoice.ID)
	if stored.Items[0].RefundedQty != 3 {
		t.Fatalf("got refunded_qty %d, want 3", stored.Items[0].RefundedQty)
	}
}

func TestRefundSingleLineExceedingSoldQty(t *testing.T) {
	f := newFixture()
	product, invoice := f.sell(t, 10, 4)

	_, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 5}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, domain.ErrOverRefund) {
		t.Fatalf("expected ErrOverRefund, got %v", err)
	}
}

func TestRefundRequiresAppliedStock(t *testing.T) {
	f := newFixture()
	product := f.products.Seed(productdomain.Product{
		SKU:       "SKU-DRAFT",
		Name:      "Widget",
		UnitPrice: decimal.NewFromInt(25),
	})
	f.ledger.Seed(product.ID, 10)

	invoice, err := f.createInvoice.Handle(context.Background(), invoicecommand.CreateInvoiceCommand{
		Items:  []invoicecommand.ItemInput{{ProductID: product.ID, Quantity: 4}},
		Status: invoicedomain.StatusDraft,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	_, err = f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 1}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, domain.ErrInvoiceNotRefundable) {
		t.Fatalf("expected ErrInvoiceNotRefundable, got %v", err)
	}
}

func TestRefundItemNotOnInvoice(t *testing.T) {
	f := newFixture()
	_, invoice := f.sell(t, 10, 4)

	_, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: uuid.New(), Quantity: 1}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, domain.ErrItemNotOnInvoice) {
		t.Fatalf("expected ErrItemNotOnInvoice, got %v", err)
	}
}

func TestDeleteRefundReversesCredit(t *testing.T) {
	f := newFixture()
	product, invoice := f.sell(t, 10, 4)

	refund, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create refund: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 8 {
		t.Fatalf("after refund: got %d, want 8", qty)
	}

	if err := f.deleteRefund.Handle(context.Background(), DeleteRefundCommand{
		RefundID: refund.ID, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("delete refund: %v", err)
	}

	if qty := f.quantity(t, product.ID); qty != 6 {
		t.Fatalf("after delete: got %d, want 6", qty)
	}
	stored, _ := f.invoices.FindByID(context.Background(), invoice.ID)
	if stored.Items[0].RefundedQty != 0 {
		t.Fatalf("got refunded_qty %d, want 0", stored.Items[0].RefundedQty)
	}
	if _, err := f.refunds.FindByID(context.Background(), refund.ID); !errors.Is(err, domain.ErrRefundNotFound) {
		t.Fatalf("refund still present: %v", err)
	}
}

// A rejected multi-line refund must not keep counter bumps from the lines
// processed before the failing one, or those lines become unrefundable.
func TestRejectedRefundReleasesCounters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	productA := f.products.Seed(productdomain.Product{
		SKU: "SKU-A", Name: "Widget", UnitPrice: decimal.NewFromInt(25),
	})
	productB := f.products.Seed(productdomain.Product{
		SKU: "SKU-B", Name: "Gadget", UnitPrice: decimal.NewFromInt(40),
	})
	f.ledger.Seed(productA.ID, 10)
	f.ledger.Seed(productB.ID, 10)

	invoice, err := f.createInvoice.Handle(ctx, invoicecommand.CreateInvoiceCommand{
		Items: []invoicecommand.ItemInput{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
		Status: invoicedomain.StatusIssued,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// Consume product B's refundable quantity.
	if _, err := f.createRefund.Handle(ctx, CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: productB.ID, Quantity: 1}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	// A's line is fine but B pushes past its cap after A's counter was
	// already bumped; the request must fail as a whole.
	_, err = f.createRefund.Handle(ctx, CreateRefundCommand{
		InvoiceID: invoice.ID,
		Items: []ItemInput{
			{ProductID: productA.ID, Quantity: 1},
			{ProductID: productB.ID, Quantity: 1},
		},
		Reason:      "changed mind",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, domain.ErrOverRefund) {
		t.Fatalf("expected ErrOverRefund, got %v", err)
	}

	stored, err := f.invoices.FindByID(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	for _, item := range stored.Items {
		switch item.ProductID {
		case productA.ID:
			if item.RefundedQty != 0 {
				t.Fatalf("product A refunded_qty = %d, want 0", item.RefundedQty)
			}
		case productB.ID:
			if item.RefundedQty != 1 {
				t.Fatalf("product B refunded_qty = %d, want 1", item.RefundedQty)
			}
		}
	}

	// With the counters released, the full refund of A still goes through.
	if _, err := f.createRefund.Handle(ctx, CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: productA.ID, Quantity: 2}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("full refund of untouched line: %v", err)
	}
}

// A stock credit failure after the refund row was written backs the refund
// out entirely: no row, no counters, no ledger entry.
func TestRefundBackedOutWhenStockCreditFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	product, invoice := f.sell(t, 10, 4)

	boom := errors.New("ledger unavailable")
	createRefund := NewCreateRefundHandler(f.refunds, f.invoices, failingStockMutator{err: boom}, audit.NopRecorder{})

	_, err := createRefund.Handle(ctx, CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the ledger error, got %v", err)
	}

	stored, _ := f.invoices.FindByID(ctx, invoice.ID)
	if stored.Items[0].RefundedQty != 0 {
		t.Fatalf("got refunded_qty %d, want 0", stored.Items[0].RefundedQty)
	}
	refunds, _ := f.refunds.FindAll(ctx, nil, 0, 0)
	if len(refunds) != 0 {
		t.Fatalf("got %d stored refunds, want 0", len(refunds))
	}
	if qty := f.quantity(t, product.ID); qty != 6 {
		t.Fatalf("got quantity %d, want 6", qty)
	}
}

// A counter update failing for storage reasons must surface as that error,
// not be reported as an over-refund.
func TestCounterStorageErrorNotMaskedAsOverRefund(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	product, invoice := f.sell(t, 10, 4)

	boom := errors.New("connection reset")
	coord := stock.NewCoordinator(f.ledger, nil)
	createRefund := NewCreateRefundHandler(
		f.refunds,
		failingCounterRepo{InvoiceRepository: f.invoices, err: boom},
		coord,
		audit.NopRecorder{},
	)

	_, err := createRefund.Handle(ctx, CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 1}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the storage error, got %v", err)
	}
	if errors.Is(err, domain.ErrOverRefund) {
		t.Fatal("storage error reported as over-refund")
	}

	refunds, _ := f.refunds.FindAll(ctx, nil, 0, 0)
	if len(refunds) != 0 {
		t.Fatalf("got %d stored refunds, want 0", len(refunds))
	}
}

// Full lifecycle: 10 on hand, sell 4, refund 2 of them, then delete the
// sale. The delete restores the full original quantities, so the refunded
// units are counted twice and the product ends at 12.
func TestSaleRefundDeleteLifecycle(t *testing.T) {
	f := newFixture()
	product, invoice := f.sell(t, 10, 4)

	if qty := f.quantity(t, product.ID); qty != 6 {
		t.Fatalf("after sale: got %d, want 6", qty)
	}

	if _, err := f.createRefund.Handle(context.Background(), CreateRefundCommand{
		InvoiceID:   invoice.ID,
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
		Reason:      "damaged",
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 8 {
		t.Fatalf("after refund: got %d, want 8", qty)
	}

	if err := f.deleteInvoice.Handle(context.Background(), invoicecommand.DeleteInvoiceCommand{
		InvoiceID: invoice.ID, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 12 {
		t.Fatalf("after delete: got %d, want 12", qty)
	}

	// Every mutation left a ledger entry, and their sum still matches the
	// on-hand quantity.
	sum, err := f.ledger.SumDeltas(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("SumDeltas: %v", err)
	}
	if sum != 12 {
		t.Fatalf("ledger sum %d, want 12", sum)
	}
}
