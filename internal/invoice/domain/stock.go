package domain

import (
	"context"

	"github.com/sellhub/pos-backend/internal/stock"
)

// StockMutator is the slice of the stock mutation coordinator the invoice
// lifecycle needs. Every stock effect of an invoice goes through it.
type StockMutator interface {
	ApplyLineItems(ctx context.Context, items []stock.LineItem, intent, ref string) ([]int, error)
}

// StockItems converts invoice lines to coordinator line items
func (inv *Invoice) StockItems() []stock.LineItem {
	items := make([]stock.LineItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, stock.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items
}
