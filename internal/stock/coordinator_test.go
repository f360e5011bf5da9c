package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/stock/stocktest"
	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("coordinator-test", false)
	m.Run()
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	coord := NewCoordinator(ledger, nil)

	_, err := coord.ApplyDelta(context.Background(), domain.Mutation{
		ProductID: uuid.New(),
		Delta:     5,
		Kind:      domain.KindIn,
		Ref:       "manual",
	})
	if !errors.Is(err, productdomain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestApplyDeltaRejectsNegativeResult(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 3)
	coord := NewCoordinator(ledger, nil)

	_, err := coord.ApplyDelta(context.Background(), domain.Mutation{
		ProductID: productID,
		Delta:     -4,
		Kind:      domain.KindOut,
		Ref:       "invoice:INV-1",
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	qty, _ := ledger.Quantity(context.Background(), productID)
	if qty != 3 {
		t.Fatalf("quantity changed on rejected mutation: got %d, want 3", qty)
	}
	if entries := ledger.EntriesFor(productID); len(entries) != 0 {
		t.Fatalf("ledger entry appended for rejected mutation: %d entries", len(entries))
	}
}

func TestApplyDeltaAllowNegativeAdjust(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 2)
	coord := NewCoordinator(ledger, nil)

	qty, err := coord.ApplyDelta(context.Background(), domain.Mutation{
		ProductID:     productID,
		Delta:         -5,
		Kind:          domain.KindAdjust,
		Ref:           "stocktake correction",
		AllowNegative: true,
	})
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if qty != -3 {
		t.Fatalf("got quantity %d, want -3", qty)
	}
}

func TestApplyDeltaWritesLedgerEntry(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 10)
	coord := NewCoordinator(ledger, nil)

	qty, err := coord.ApplyDelta(context.Background(), domain.Mutation{
		ProductID: productID,
		Delta:     -4,
		Kind:      domain.KindOut,
		Ref:       "invoice:INV-20250101-ABC123",
	})
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if qty != 6 {
		t.Fatalf("got quantity %d, want 6", qty)
	}

	entries := ledger.EntriesFor(productID)
	if len(entries) != 1 {
		t.Fatalf("got %d ledger entries, want 1", len(entries))
	}
	if entries[0].Qty != -4 || entries[0].Ref != "invoice:INV-20250101-ABC123" {
		t.Fatalf("unexpected ledger entry: %+v", entries[0])
	}

	current, sum, err := coord.VerifyLedger(context.Background(), productID)
	if err != nil {
		t.Fatalf("VerifyLedger: %v", err)
	}
	if current != sum {
		t.Fatalf("ledger out of sync: quantity %d, ledger sum %d", current, sum)
	}
}

// A five-line sale where one line lacks stock must mutate nothing at all.
func TestApplyLineItemsAllOrNothing(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	coord := NewCoordinator(ledger, nil)

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		ledger.Seed(ids[i], 10)
	}
	// Third line asks for more than is on hand.
	items := []LineItem{
		{ProductID: ids[0], Quantity: 1},
		{ProductID: ids[1], Quantity: 2},
		{ProductID: ids[2], Quantity: 11},
		{ProductID: ids[3], Quantity: 4},
		{ProductID: ids[4], Quantity: 5},
	}

	_, err := coord.ApplyLineItems(context.Background(), items, domain.IntentDecrease, "invoice:INV-2")
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	for i, id := range ids {
		qty, _ := ledger.Quantity(context.Background(), id)
		if qty != 10 {
			t.Fatalf("item %d quantity changed: got %d, want 10", i, qty)
		}
		if entries := ledger.EntriesFor(id); len(entries) != 0 {
			t.Fatalf("item %d has %d ledger entries, want 0", i, len(entries))
		}
	}
}

func TestApplyLineItemsMergesDuplicateProducts(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 10)
	coord := NewCoordinator(ledger, nil)

	items := []LineItem{
		{ProductID: productID, Quantity: 2},
		{ProductID: productID, Quantity: 3},
	}
	qtys, err := coord.ApplyLineItems(context.Background(), items, domain.IntentDecrease, "invoice:INV-3")
	if err != nil {
		t.Fatalf("ApplyLineItems: %v", err)
	}
	if len(qtys) != 1 || qtys[0] != 5 {
		t.Fatalf("got %v, want one merged mutation landing on 5", qtys)
	}
	if entries := ledger.EntriesFor(productID); len(entries) != 1 || entries[0].Qty != -5 {
		t.Fatalf("expected a single -5 ledger entry, got %+v", entries)
	}
}

// Two concurrent decrease-by-1 calls against quantity 1 must produce exactly
// one success: the lost-update race must be impossible.
func TestConcurrentDecrementsNoLostUpdate(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 1)
	coord := NewCoordinator(ledger, nil)

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.ApplyLineItems(
				context.Background(),
				[]LineItem{{ProductID: productID, Quantity: 1}},
				domain.IntentDecrease,
				"invoice:race",
			)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientStock),
			errors.Is(err, domain.ErrConcurrentModification):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("got %d successes, want exactly 1", successes)
	}

	qty, _ := ledger.Quantity(context.Background(), productID)
	if qty != 0 {
		t.Fatalf("final quantity %d, want 0", qty)
	}
}

func TestApplyLineItemsIncreaseNeverFailsOnStock(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 0)
	coord := NewCoordinator(ledger, nil)

	qtys, err := coord.ApplyLineItems(
		context.Background(),
		[]LineItem{{ProductID: productID, Quantity: 7}},
		domain.IntentIncrease,
		"refund:abc",
	)
	if err != nil {
		t.Fatalf("ApplyLineItems: %v", err)
	}
	if qtys[0] != 7 {
		t.Fatalf("got quantity %d, want 7", qtys[0])
	}
}

func TestApplyMutationsRejectsInvalidKind(t *testing.T) {
	ledger := stocktest.NewFakeLedger()
	productID := uuid.New()
	ledger.Seed(productID, 5)
	coord := NewCoordinator(ledger, nil)

	_, err := coord.ApplyMutations(context.Background(), []domain.Mutation{
		{ProductID: productID, Delta: 1, Kind: "BOGUS", Ref: "x"},
	})
	if !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}
