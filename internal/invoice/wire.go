//go:build wireinject
// +build wireinject

package invoice

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/audit"
	"github.com/sellhub/pos-backend/internal/invoice/delivery/http"
	"github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/invoice/repository"
	"github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	"github.com/sellhub/pos-backend/internal/invoice/usecase/query"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock"
)

// ProvideInvoiceRepository provides the invoice repository
func ProvideInvoiceRepository(db *gorm.DB) domain.InvoiceRepository {
	return repository.NewGormInvoiceRepository(db)
}

// ProvideStockMutator binds the coordinator as the invoice stock mutator
func ProvideStockMutator(coordinator *stock.Coordinator) domain.StockMutator {
	return coordinator
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideInvoiceRepository,
	ProvideStockMutator,
)

var CommandSet = wire.NewSet(
	command.NewCreateInvoiceHandler,
	command.NewUpdateStatusHandler,
	command.NewMarkPaidHandler,
	command.NewDeleteInvoiceHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetInvoiceHandler,
	query.NewListInvoicesHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	products productdomain.ProductRepository,
	coordinator *stock.Coordinator,
	auditor audit.Recorder,
) (*http.InvoiceHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewInvoiceHandler,
	)
	return nil, nil
}
