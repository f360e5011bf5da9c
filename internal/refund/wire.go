//go:build wireinject
// +build wireinject

package refund

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/audit"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/refund/delivery/http"
	"github.com/sellhub/pos-backend/internal/refund/domain"
	"github.com/sellhub/pos-backend/internal/refund/repository"
	"github.com/sellhub/pos-backend/internal/refund/usecase/command"
	"github.com/sellhub/pos-backend/internal/refund/usecase/query"
	"github.com/sellhub/pos-backend/internal/stock"
)

// ProvideRefundRepository provides the refund repository
func ProvideRefundRepository(db *gorm.DB) domain.RefundRepository {
	return repository.NewGormRefundRepository(db)
}

// ProvideStockMutator binds the coordinator as the refund stock mutator
func ProvideStockMutator(coordinator *stock.Coordinator) domain.StockMutator {
	return coordinator
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRefundRepository,
	ProvideStockMutator,
)

var CommandSet = wire.NewSet(
	command.NewCreateRefundHandler,
	command.NewDeleteRefundHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetRefundHandler,
	query.NewListRefundsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	invoices invoicedomain.InvoiceRepository,
	coordinator *stock.Coordinator,
	auditor audit.Recorder,
) (*http.RefundHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewRefundHandler,
	)
	return nil, nil
}
