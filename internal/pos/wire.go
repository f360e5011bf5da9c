//go:build wireinject
// +build wireinject

package pos

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	expensedomain "github.com/sellhub/pos-backend/internal/expense/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	invoicecommand "github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	"github.com/sellhub/pos-backend/internal/pos/delivery/http"
	"github.com/sellhub/pos-backend/internal/pos/domain"
	"github.com/sellhub/pos-backend/internal/pos/repository"
	"github.com/sellhub/pos-backend/internal/pos/usecase/command"
	"github.com/sellhub/pos-backend/internal/pos/usecase/query"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
)

// ProvideDrawerEventRepository provides the drawer event repository
func ProvideDrawerEventRepository(db *gorm.DB) domain.DrawerEventRepository {
	return repository.NewGormDrawerEventRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideDrawerEventRepository,
)

var CommandSet = wire.NewSet(
	command.NewQuickSellHandler,
	command.NewOpenDrawerHandler,
	command.NewCloseDrawerHandler,
	command.NewCloseShiftHandler,
)

var QuerySet = wire.NewSet(
	query.NewDailyReportHandler,
	query.NewSalesReportHandler,
	query.NewDuplicateBillHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	products productdomain.ProductRepository,
	createInvoice *invoicecommand.CreateInvoiceHandler,
	invoices invoicedomain.InvoiceRepository,
	refunds refunddomain.RefundRepository,
	expenses expensedomain.ExpenseRepository,
) (*http.POSHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewPOSHandler,
	)
	return nil, nil
}
