package command

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/audit"
	"github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/invoice/invoicetest"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/product/producttest"
	"github.com/sellhub/pos-backend/internal/stock"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/stock/stocktest"
	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("invoice-command-test", false)
	m.Run()
}

type fixture struct {
	invoices *invoicetest.FakeRepository
	products *producttest.FakeRepository
	ledger   *stocktest.FakeLedger
	create   *CreateInvoiceHandler
	status   *UpdateStatusHandler
	remove   *DeleteInvoiceHandler
}

func newFixture() *fixture {
	invoices := invoicetest.NewFakeRepository()
	products := producttest.NewFakeRepository()
	ledger := stocktest.NewFakeLedger()
	coord := stock.NewCoordinator(ledger, nil)
	auditor := audit.NopRecorder{}

	return &fixture{
		invoices: invoices,
		products: products,
		ledger:   ledger,
		create:   NewCreateInvoiceHandler(invoices, products, coord, auditor),
		status:   NewUpdateStatusHandler(invoices, coord, auditor),
		remove:   NewDeleteInvoiceHandler(invoices, coord, auditor),
	}
}

func (f *fixture) seedProduct(t *testing.T, qty int) *productdomain.Product {
	t.Helper()
	product := f.products.Seed(productdomain.Product{
		SKU:       "SKU-" + uuid.New().String()[:8],
		Name:      "Widget",
		UnitPrice: decimal.NewFromInt(25),
	})
	f.ledger.Seed(product.ID, qty)
	return product
}

func (f *fixture) quantity(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	qty, err := f.ledger.Quantity(context.Background(), productID)
	if err != nil {
		t.Fatalf("Quantity: %v", err)
	}
	return qty
}

func TestCreateInvoiceDraftLeavesStockAlone(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 4}},
		Status: domain.StatusDraft,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if invoice.Status != domain.StatusDraft || invoice.StockApplied {
		t.Fatalf("got status %q stockApplied %v, want draft/false", invoice.Status, invoice.StockApplied)
	}
	if qty := f.quantity(t, product.ID); qty != 10 {
		t.Fatalf("draft invoice touched stock: got %d, want 10", qty)
	}
	if entries := f.ledger.EntriesFor(product.ID); len(entries) != 0 {
		t.Fatalf("draft invoice wrote %d ledger entries", len(entries))
	}
}

func TestCreateInvoiceIssuedDecreasesStock(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 4}},
		Status: domain.StatusIssued,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !invoice.StockApplied {
		t.Fatal("issued invoice must record the applied decrease")
	}
	if qty := f.quantity(t, product.ID); qty != 6 {
		t.Fatalf("got quantity %d, want 6", qty)
	}

	entries := f.ledger.EntriesFor(product.ID)
	if len(entries) != 1 || entries[0].Qty != -4 || entries[0].Ref != invoice.InvoiceNo {
		t.Fatalf("unexpected ledger entries: %+v", entries)
	}

	stored, err := f.invoices.FindByID(context.Background(), invoice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.StockApplied || stored.Status != domain.StatusIssued {
		t.Fatalf("persisted invoice not updated: %+v", stored)
	}
}

func TestCreateInvoiceInsufficientStockLeavesNoRow(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 3)

	_, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 4}},
		Status: domain.StatusIssued,
		UserID: uuid.New(),
	})
	if !errors.Is(err, stockdomain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if qty := f.quantity(t, product.ID); qty != 3 {
		t.Fatalf("rejected sale changed stock: got %d, want 3", qty)
	}
	count, _ := f.invoices.Count(context.Background())
	if count != 0 {
		t.Fatalf("rejected sale left %d invoice rows", count)
	}
}

func TestCreateInvoiceUnknownProduct(t *testing.T) {
	f := newFixture()

	_, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: uuid.New(), Quantity: 1}},
		UserID: uuid.New(),
	})
	if !errors.Is(err, productdomain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateInvoiceRequiresItems(t *testing.T) {
	f := newFixture()

	_, err := f.create.Handle(context.Background(), CreateInvoiceCommand{UserID: uuid.New()})
	if !errors.Is(err, domain.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestCreateInvoicePriceOverride(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)
	override := decimal.NewFromInt(9)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: &override}},
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !invoice.Items[0].UnitPrice.Equal(override) {
		t.Fatalf("got unit price %s, want %s", invoice.Items[0].UnitPrice, override)
	}
	if !invoice.Subtotal().Equal(decimal.NewFromInt(18)) {
		t.Fatalf("got subtotal %s, want 18", invoice.Subtotal())
	}
}

// Issuing a draft decreases stock once; the later paid transition must not
// decrease it again.
func TestStockDecreasedExactlyOnce(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Status: domain.StatusDraft,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.status.Handle(context.Background(), UpdateStatusCommand{
		InvoiceID: invoice.ID, Status: domain.StatusIssued, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 7 {
		t.Fatalf("after issue: got %d, want 7", qty)
	}

	if _, err := f.status.Handle(context.Background(), UpdateStatusCommand{
		InvoiceID: invoice.ID, Status: domain.StatusPaid, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 7 {
		t.Fatalf("paying decreased stock again: got %d, want 7", qty)
	}
	if entries := f.ledger.EntriesFor(product.ID); len(entries) != 1 {
		t.Fatalf("got %d ledger entries, want 1", len(entries))
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Status: domain.StatusIssued,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 7 {
		t.Fatalf("after issue: got %d, want 7", qty)
	}

	cancelled, err := f.status.Handle(context.Background(), UpdateStatusCommand{
		InvoiceID: invoice.ID, Status: domain.StatusCancelled, UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.StockApplied {
		t.Fatal("cancelled invoice must clear the applied flag")
	}
	if qty := f.quantity(t, product.ID); qty != 10 {
		t.Fatalf("cancel did not restore stock: got %d, want 10", qty)
	}
}

func TestCancelDraftNoCredit(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Status: domain.StatusDraft,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.status.Handle(context.Background(), UpdateStatusCommand{
		InvoiceID: invoice.ID, Status: domain.StatusCancelled, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 10 {
		t.Fatalf("cancelling a draft credited stock: got %d, want 10", qty)
	}
}

func TestIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"paid to issued", domain.StatusPaid, domain.StatusIssued},
		{"paid to draft", domain.StatusPaid, domain.StatusDraft},
		{"issued to draft", domain.StatusIssued, domain.StatusDraft},
		{"cancelled to issued", domain.StatusCancelled, domain.StatusIssued},
		{"cancelled to paid", domain.StatusCancelled, domain.StatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			product := f.seedProduct(t, 10)

			invoice := &domain.Invoice{
				ID:        uuid.New(),
				InvoiceNo: NewInvoiceNo(),
				Status:    tc.from,
				Items: []domain.InvoiceItem{
					{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(5)},
				},
			}
			if err := f.invoices.Create(context.Background(), invoice); err != nil {
				t.Fatalf("seed invoice: %v", err)
			}

			_, err := f.status.Handle(context.Background(), UpdateStatusCommand{
				InvoiceID: invoice.ID, Status: tc.to, UserID: uuid.New(),
			})
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.status.Handle(context.Background(), UpdateStatusCommand{
		InvoiceID: uuid.New(), Status: "archived", UserID: uuid.New(),
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeleteIssuedInvoiceRestoresStock(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Status: domain.StatusIssued,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.remove.Handle(context.Background(), DeleteInvoiceCommand{
		InvoiceID: invoice.ID, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if qty := f.quantity(t, product.ID); qty != 10 {
		t.Fatalf("delete did not restore stock: got %d, want 10", qty)
	}
	if _, err := f.invoices.FindByID(context.Background(), invoice.ID); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("invoice still present after delete: %v", err)
	}
}

func TestDeleteDraftInvoiceNoCredit(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.create.Handle(context.Background(), CreateInvoiceCommand{
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 3}},
		Status: domain.StatusDraft,
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.remove.Handle(context.Background(), DeleteInvoiceCommand{
		InvoiceID: invoice.ID, UserID: uuid.New(),
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if qty := f.quantity(t, product.ID); qty != 10 {
		t.Fatalf("deleting a draft credited stock: got %d, want 10", qty)
	}
	if entries := f.ledger.EntriesFor(product.ID); len(entries) != 0 {
		t.Fatalf("deleting a draft wrote %d ledger entries", len(entries))
	}
}
