//go:build wireinject
// +build wireinject

package http

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/stock"
)

// InitializeStockHandler initializes HTTP handler with all dependencies.
// The injector lives in the delivery package so the handler can depend on
// the coordinator without a cycle back into the stock package.
func InitializeStockHandler(db *gorm.DB, coordinator *stock.Coordinator) (*StockHandler, error) {
	wire.Build(
		stock.RepositorySet,
		NewStockHandler,
	)
	return nil, nil
}
