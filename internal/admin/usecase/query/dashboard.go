package query

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/admin/domain"
	customerdomain "github.com/sellhub/pos-backend/internal/customer/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
)

// DashboardQuery represents the dashboard aggregates query
type DashboardQuery struct{}

// Dashboard aggregates the figures shown on the admin landing page. Revenue
// covers issued and paid invoices.
type Dashboard struct {
	ProductCount  int64                   `json:"product_count"`
	CustomerCount int64                   `json:"customer_count"`
	InvoiceCount  int64                   `json:"invoice_count"`
	ActiveUsers   int64                   `json:"active_users"`
	Revenue       decimal.Decimal         `json:"revenue"`
	LowStock      []productdomain.Product `json:"low_stock"`
}

// DashboardHandler handles dashboard queries
type DashboardHandler struct {
	products  productdomain.ProductRepository
	customers customerdomain.CustomerRepository
	invoices  invoicedomain.InvoiceRepository
	users     userdomain.UserRepository
	settings  domain.SettingsRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	products productdomain.ProductRepository,
	customers customerdomain.CustomerRepository,
	invoices invoicedomain.InvoiceRepository,
	users userdomain.UserRepository,
	settings domain.SettingsRepository,
) *DashboardHandler {
	return &DashboardHandler{
		products:  products,
		customers: customers,
		invoices:  invoices,
		users:     users,
		settings:  settings,
	}
}

// Handle executes the dashboard query
func (h *DashboardHandler) Handle(ctx context.Context, _ DashboardQuery) (*Dashboard, error) {
	dashboard := &Dashboard{Revenue: decimal.Zero}

	var err error
	if dashboard.ProductCount, err = h.products.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.CustomerCount, err = h.customers.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.InvoiceCount, err = h.invoices.Count(ctx); err != nil {
		return nil, err
	}
	if dashboard.ActiveUsers, err = h.users.CountActive(ctx); err != nil {
		return nil, err
	}

	dashboard.Revenue, err = h.invoices.SumTotals(ctx, []string{
		invoicedomain.StatusIssued,
		invoicedomain.StatusPaid,
	})
	if err != nil {
		return nil, err
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.LowStock, err = h.products.FindBelowStock(ctx, settings.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}
