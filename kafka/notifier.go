package kafka

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// StockNotifier publishes applied stock mutations. It satisfies the stock
// coordinator's Notifier; publish failures are logged and never surface to
// the mutation path.
type StockNotifier struct {
	publisher *Publisher
}

// NewStockNotifier creates a new stock notifier
func NewStockNotifier(publisher *Publisher) *StockNotifier {
	return &StockNotifier{publisher: publisher}
}

// StockMutated publishes one applied mutation
func (n *StockNotifier) StockMutated(ctx context.Context, productID uuid.UUID, delta, newQty int, kind, ref string) {
	err := n.publisher.PublishStockMutated(ctx, StockMutatedEvent{
		ProductID: productID,
		Delta:     delta,
		NewQty:    newQty,
		Kind:      kind,
		Ref:       ref,
	})
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("product_id", productID.String()).
			Msg("Failed to publish stock mutation")
	}
}
