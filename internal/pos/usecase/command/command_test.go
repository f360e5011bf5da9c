package command

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/audit"
	expensedomain "github.com/sellhub/pos-backend/internal/expense/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/invoice/invoicetest"
	invoicecommand "github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	"github.com/sellhub/pos-backend/internal/pos/domain"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/product/producttest"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
	"github.com/sellhub/pos-backend/internal/stock"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/stock/stocktest"
	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("pos-command-test", false)
	m.Run()
}

type fakeDrawerRepository struct {
	mu     sync.Mutex
	events []domain.DrawerEvent
}

func (f *fakeDrawerRepository) Create(_ context.Context, event *domain.DrawerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeDrawerRepository) FindLast(_ context.Context) (*domain.DrawerEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) == 0 {
		return nil, domain.ErrEventNotFound
	}
	out := f.events[len(f.events)-1]
	return &out, nil
}

func (f *fakeDrawerRepository) FindByDateRange(_ context.Context, from, to time.Time) ([]domain.DrawerEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.DrawerEvent
	for _, event := range f.events {
		if event.CreatedAt.Before(from) || !event.CreatedAt.Before(to) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (f *fakeDrawerRepository) FindAll(_ context.Context, limit, offset int) ([]domain.DrawerEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := append([]domain.DrawerEvent(nil), f.events...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	_ = limit
	_ = offset
	return out, nil
}

type fakeRefundSums struct {
	refunddomain.RefundRepository
	total decimal.Decimal
}

func (f *fakeRefundSums) SumAmounts(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeExpenseRange struct {
	expensedomain.ExpenseRepository
	expenses []expensedomain.Expense
}

func (f *fakeExpenseRange) FindByDateRange(_ context.Context, _, _ time.Time) ([]expensedomain.Expense, error) {
	return f.expenses, nil
}

type fixture struct {
	invoices *invoicetest.FakeRepository
	products *producttest.FakeRepository
	ledger   *stocktest.FakeLedger
	drawer   *fakeDrawerRepository
	refunds  *fakeRefundSums
	expenses *fakeExpenseRange
	sell     *QuickSellHandler
	open     *OpenDrawerHandler
	close    *CloseDrawerHandler
	shift    *CloseShiftHandler
}

func newFixture() *fixture {
	invoices := invoicetest.NewFakeRepository()
	products := producttest.NewFakeRepository()
	ledger := stocktest.NewFakeLedger()
	coord := stock.NewCoordinator(ledger, nil)
	auditor := audit.NopRecorder{}
	drawer := &fakeDrawerRepository{}
	refunds := &fakeRefundSums{total: decimal.Zero}
	expenses := &fakeExpenseRange{}

	createInvoice := invoicecommand.NewCreateInvoiceHandler(invoices, products, coord, auditor)

	return &fixture{
		invoices: invoices,
		products: products,
		ledger:   ledger,
		drawer:   drawer,
		refunds:  refunds,
		expenses: expenses,
		sell:     NewQuickSellHandler(products, createInvoice),
		open:     NewOpenDrawerHandler(drawer),
		close:    NewCloseDrawerHandler(drawer),
		shift:    NewCloseShiftHandler(drawer, invoices, refunds, expenses),
	}
}

func (f *fixture) seedProduct(t *testing.T, qty int) *productdomain.Product {
	t.Helper()
	product := f.products.Seed(productdomain.Product{
		SKU:        "SKU-" + uuid.New().String()[:8],
		Name:       "Widget",
		UnitPrice:  decimal.NewFromInt(20),
		StockLevel: qty,
	})
	f.ledger.Seed(product.ID, qty)
	return product
}

func TestQuickSellIssuesInvoiceAndDecreasesStock(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 10)

	invoice, err := f.sell.Handle(context.Background(), QuickSellCommand{
		Items:  []SaleItem{{ProductID: product.ID, Quantity: 3}},
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if invoice.Status != invoicedomain.StatusIssued {
		t.Fatalf("got status %q, want issued", invoice.Status)
	}
	if !invoice.StockApplied {
		t.Fatal("quick sale must record the applied decrease")
	}
	qty, err := f.ledger.Quantity(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("Quantity: %v", err)
	}
	if qty != 7 {
		t.Fatalf("got stock %d, want 7", qty)
	}
	if want := decimal.NewFromInt(60); !invoice.Total().Equal(want) {
		t.Fatalf("got total %s, want %s", invoice.Total(), want)
	}
}

func TestQuickSellRejectsUnavailableProduct(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, 2)

	_, err := f.sell.Handle(context.Background(), QuickSellCommand{
		Items:  []SaleItem{{ProductID: product.ID, Quantity: 3}},
		UserID: uuid.New(),
	})
	if !errors.Is(err, stockdomain.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	invoices, err := f.invoices.FindAll(context.Background(), nil, 100, 0)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(invoices) != 0 {
		t.Fatalf("rejected sale left %d invoice rows", len(invoices))
	}
}

func TestQuickSellMultiLine(t *testing.T) {
	f := newFixture()
	first := f.seedProduct(t, 5)
	second := f.seedProduct(t, 5)

	invoice, err := f.sell.Handle(context.Background(), QuickSellCommand{
		Items: []SaleItem{
			{ProductID: first.ID, Quantity: 2},
			{ProductID: second.ID, Quantity: 1},
		},
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("got %d lines, want 2", len(invoice.Items))
	}
}

func TestQuickSellRequiresItems(t *testing.T) {
	f := newFixture()

	_, err := f.sell.Handle(context.Background(), QuickSellCommand{UserID: uuid.New()})
	if !errors.Is(err, invoicedomain.ErrNoItems) {
		t.Fatalf("got %v, want ErrNoItems", err)
	}
}

func TestOpenDrawerTwiceRejected(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	if _, err := f.open.Handle(context.Background(), OpenDrawerCommand{
		OpeningFloat: decimal.NewFromInt(100),
		UserID:       userID,
	}); err != nil {
		t.Fatalf("first open: %v", err)
	}

	_, err := f.open.Handle(context.Background(), OpenDrawerCommand{
		OpeningFloat: decimal.NewFromInt(100),
		UserID:       userID,
	})
	if !errors.Is(err, domain.ErrDrawerAlreadyOpen) {
		t.Fatalf("got %v, want ErrDrawerAlreadyOpen", err)
	}
}

func TestCloseDrawerRequiresOpen(t *testing.T) {
	f := newFixture()

	_, err := f.close.Handle(context.Background(), CloseDrawerCommand{
		CountedCash: decimal.NewFromInt(100),
		UserID:      uuid.New(),
	})
	if !errors.Is(err, domain.ErrDrawerNotOpen) {
		t.Fatalf("got %v, want ErrDrawerNotOpen", err)
	}
}

func TestDrawerOpenCloseReopen(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	if _, err := f.open.Handle(ctx, OpenDrawerCommand{OpeningFloat: decimal.NewFromInt(100), UserID: userID}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.close.Handle(ctx, CloseDrawerCommand{CountedCash: decimal.NewFromInt(250), UserID: userID}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.open.Handle(ctx, OpenDrawerCommand{OpeningFloat: decimal.NewFromInt(100), UserID: userID}); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
}

func TestCloseShiftReconcilesDrawer(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	ctx := context.Background()

	if _, err := f.open.Handle(ctx, OpenDrawerCommand{OpeningFloat: decimal.NewFromInt(100), UserID: userID}); err != nil {
		t.Fatalf("open: %v", err)
	}

	// One sale of 3 * 20 during the shift, 10 refunded, 15 spent.
	product := f.seedProduct(t, 10)
	if _, err := f.sell.Handle(ctx, QuickSellCommand{
		Items:  []SaleItem{{ProductID: product.ID, Quantity: 3}},
		UserID: userID,
	}); err != nil {
		t.Fatalf("sell: %v", err)
	}
	f.refunds.total = decimal.NewFromInt(10)
	f.expenses.expenses = []expensedomain.Expense{{Amount: decimal.NewFromInt(15)}}

	summary, err := f.shift.Handle(ctx, CloseShiftCommand{
		CountedCash: decimal.NewFromInt(130),
		UserID:      userID,
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}

	if want := decimal.NewFromInt(60); !summary.GrossSales.Equal(want) {
		t.Fatalf("got gross %s, want %s", summary.GrossSales, want)
	}
	if want := decimal.NewFromInt(135); !summary.ExpectedCash.Equal(want) {
		t.Fatalf("got expected cash %s, want %s", summary.ExpectedCash, want)
	}
	if want := decimal.NewFromInt(-5); !summary.Variance.Equal(want) {
		t.Fatalf("got variance %s, want %s", summary.Variance, want)
	}

	// The shift close event leaves the drawer closed.
	_, err = f.close.Handle(ctx, CloseDrawerCommand{CountedCash: decimal.Zero, UserID: userID})
	if !errors.Is(err, domain.ErrDrawerNotOpen) {
		t.Fatalf("drawer still open after shift close: %v", err)
	}
}
