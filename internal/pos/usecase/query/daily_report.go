package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	expensedomain "github.com/sellhub/pos-backend/internal/expense/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
)

// DailyReportQuery represents the query for one day's trading figures
type DailyReportQuery struct {
	Date time.Time
}

// DailyReport summarizes a single trading day. GrossSales counts issued and
// paid invoices only; drafts and cancellations are excluded.
type DailyReport struct {
	Date         time.Time                 `json:"date"`
	InvoiceCount int                       `json:"invoice_count"`
	GrossSales   decimal.Decimal           `json:"gross_sales"`
	RefundTotal  decimal.Decimal           `json:"refund_total"`
	ExpenseTotal decimal.Decimal           `json:"expense_total"`
	NetSales     decimal.Decimal           `json:"net_sales"`
	Expenses     []expensedomain.TypeTotal `json:"expenses_by_type"`
	Invoices     []invoicedomain.Invoice   `json:"invoices"`
}

// DailyReportHandler handles daily report queries
type DailyReportHandler struct {
	invoices invoicedomain.InvoiceRepository
	refunds  refunddomain.RefundRepository
	expenses expensedomain.ExpenseRepository
}

// NewDailyReportHandler creates a new daily report handler
func NewDailyReportHandler(
	invoices invoicedomain.InvoiceRepository,
	refunds refunddomain.RefundRepository,
	expenses expensedomain.ExpenseRepository,
) *DailyReportHandler {
	return &DailyReportHandler{invoices: invoices, refunds: refunds, expenses: expenses}
}

// Handle executes the daily report query
func (h *DailyReportHandler) Handle(ctx context.Context, q DailyReportQuery) (*DailyReport, error) {
	from := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	to := from.AddDate(0, 0, 1)

	report := &DailyReport{
		Date:         from,
		GrossSales:   decimal.Zero,
		RefundTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	invoices, err := h.invoices.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if !invoicedomain.DecreasesStock(invoices[i].Status) {
			continue
		}
		report.InvoiceCount++
		report.GrossSales = report.GrossSales.Add(invoices[i].Total())
		report.Invoices = append(report.Invoices, invoices[i])
	}

	report.RefundTotal, err = h.refunds.SumAmounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report.Expenses, err = h.expenses.TotalsByType(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range report.Expenses {
		report.ExpenseTotal = report.ExpenseTotal.Add(row.Total)
	}

	report.NetSales = report.GrossSales.Sub(report.RefundTotal)
	return report, nil
}
