package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// LineItem is one (product, quantity) pair from a sale or refund
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Notifier receives a fire-and-forget record of each successful mutation.
// Failures are logged and never fail the mutation.
type Notifier interface {
	StockMutated(ctx context.Context, productID uuid.UUID, delta, newQty int, kind, ref string)
}

// Coordinator is the single code path through which any business event
// changes a product's on-hand quantity. Sales, refunds and manual stock
// entries all route through here; nothing else writes stock_level.
type Coordinator struct {
	ledger   domain.LedgerRepository
	notifier Notifier
}

// NewCoordinator creates a stock mutation coordinator. notifier may be nil.
func NewCoordinator(ledger domain.LedgerRepository, notifier Notifier) *Coordinator {
	return &Coordinator{ledger: ledger, notifier: notifier}
}

// ApplyDelta atomically applies one signed quantity change and appends the
// matching ledger entry. It does not clamp at zero: a decrease that would go
// negative fails with ErrInsufficientStock unless mut.AllowNegative is set
// (corrective ADJUST entries and refund deletion need the override).
func (c *Coordinator) ApplyDelta(ctx context.Context, mut domain.Mutation) (int, error) {
	if !domain.ValidKind(mut.Kind) {
		return 0, domain.ErrInvalidKind
	}
	if mut.Delta == 0 {
		return 0, domain.ErrInvalidQuantity
	}

	newQty, err := c.ledger.Apply(ctx, mut)
	if err != nil {
		return 0, err
	}

	c.notify(ctx, mut.ProductID, mut.Delta, newQty, mut.Kind, mut.Ref)
	return newQty, nil
}

// ApplyLineItems applies a transaction's line items as one logical unit.
// For DECREASE intent it first validates that every item's resulting
// quantity would stay non-negative, then applies all deltas inside a single
// database transaction, so a multi-item sale either fully succeeds or fails
// with no partial stock mutation.
func (c *Coordinator) ApplyLineItems(ctx context.Context, items []LineItem, intent, ref string) ([]int, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if intent != domain.IntentDecrease && intent != domain.IntentIncrease {
		return nil, fmt.Errorf("invalid intent %q", intent)
	}

	muts, err := c.buildMutations(items, intent, ref)
	if err != nil {
		return nil, err
	}

	if intent == domain.IntentDecrease {
		if err := c.precheck(ctx, muts); err != nil {
			return nil, err
		}
	}

	qtys, err := c.ledger.ApplyAll(ctx, muts)
	if err != nil {
		// The pre-check already passed, so an insufficient-stock result on
		// apply means another request changed the quantity in between.
		if intent == domain.IntentDecrease && errors.Is(err, domain.ErrInsufficientStock) {
			return nil, domain.ErrConcurrentModification
		}
		return nil, err
	}

	for i, mut := range muts {
		c.notify(ctx, mut.ProductID, mut.Delta, qtys[i], mut.Kind, mut.Ref)
	}
	return qtys, nil
}

// ApplyMutations applies explicit mutations inside one database transaction
// with no pre-check. Callers use it for compensating reversals that are
// allowed to drive stock negative.
func (c *Coordinator) ApplyMutations(ctx context.Context, muts []domain.Mutation) ([]int, error) {
	if len(muts) == 0 {
		return nil, nil
	}
	for _, mut := range muts {
		if !domain.ValidKind(mut.Kind) {
			return nil, domain.ErrInvalidKind
		}
		if mut.Delta == 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	qtys, err := c.ledger.ApplyAll(ctx, muts)
	if err != nil {
		return nil, err
	}

	for i, mut := range muts {
		c.notify(ctx, mut.ProductID, mut.Delta, qtys[i], mut.Kind, mut.Ref)
	}
	return qtys, nil
}

// buildMutations folds line items into one signed mutation per distinct
// product.
func (c *Coordinator) buildMutations(items []LineItem, intent, ref string) ([]domain.Mutation, error) {
	sign := 1
	kind := domain.KindIn
	if intent == domain.IntentDecrease {
		sign = -1
		kind = domain.KindOut
	}

	index := make(map[uuid.UUID]int)
	muts := make([]domain.Mutation, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if i, ok := index[item.ProductID]; ok {
			muts[i].Delta += sign * item.Quantity
			continue
		}
		index[item.ProductID] = len(muts)
		muts = append(muts, domain.Mutation{
			ProductID: item.ProductID,
			Delta:     sign * item.Quantity,
			Kind:      kind,
			Ref:       ref,
		})
	}
	return muts, nil
}

// precheck validates every projected quantity before any delta is applied
func (c *Coordinator) precheck(ctx context.Context, muts []domain.Mutation) error {
	for _, mut := range muts {
		current, err := c.ledger.Quantity(ctx, mut.ProductID)
		if err != nil {
			return err
		}
		if current+mut.Delta < 0 {
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// VerifyLedger checks the ledger-sum invariant for one product and returns
// the two quantities.
func (c *Coordinator) VerifyLedger(ctx context.Context, productID uuid.UUID) (current, ledgerSum int, err error) {
	current, err = c.ledger.Quantity(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	ledgerSum, err = c.ledger.SumDeltas(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	return current, ledgerSum, nil
}

func (c *Coordinator) notify(ctx context.Context, productID uuid.UUID, delta, newQty int, kind, ref string) {
	logger.Info(ctx).
		Str("product_id", productID.String()).
		Int("delta", delta).
		Int("new_qty", newQty).
		Str("kind", kind).
		Str("ref", ref).
		Msg("Stock mutated")

	if c.notifier != nil {
		c.notifier.StockMutated(ctx, productID, delta, newQty, kind, ref)
	}
}
