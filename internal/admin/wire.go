//go:build wireinject
// +build wireinject

package admin

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/admin/delivery/http"
	"github.com/sellhub/pos-backend/internal/admin/domain"
	"github.com/sellhub/pos-backend/internal/admin/repository"
	"github.com/sellhub/pos-backend/internal/admin/usecase/query"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	customerdomain "github.com/sellhub/pos-backend/internal/customer/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
)

// ProvideSettingsRepository provides the store settings repository
func ProvideSettingsRepository(db *gorm.DB) domain.SettingsRepository {
	return repository.NewGormSettingsRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSettingsRepository,
)

var QuerySet = wire.NewSet(
	query.NewDashboardHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	products productdomain.ProductRepository,
	customers customerdomain.CustomerRepository,
	invoices invoicedomain.InvoiceRepository,
	users userdomain.UserRepository,
	audits auditdomain.AuditRepository,
) (*http.AdminHandler, error) {
	wire.Build(
		RepositorySet,
		QuerySet,
		http.NewAdminHandler,
	)
	return nil, nil
}
