package query

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
)

// SalesReportQuery represents the query for sales figures over a date range
type SalesReportQuery struct {
	From time.Time
	To   time.Time
}

// DaySales is one day's slice of a sales report
type DaySales struct {
	Date         time.Time       `json:"date"`
	InvoiceCount int             `json:"invoice_count"`
	Total        decimal.Decimal `json:"total"`
}

// SalesReport summarizes issued and paid invoices over a range, with a
// per-day breakdown
type SalesReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	InvoiceCount int             `json:"invoice_count"`
	GrossSales   decimal.Decimal `json:"gross_sales"`
	RefundTotal  decimal.Decimal `json:"refund_total"`
	NetSales     decimal.Decimal `json:"net_sales"`
	Days         []DaySales      `json:"days"`
}

// SalesReportHandler handles sales report queries
type SalesReportHandler struct {
	invoices invoicedomain.InvoiceRepository
	refunds  refunddomain.RefundRepository
}

// NewSalesReportHandler creates a new sales report handler
func NewSalesReportHandler(
	invoices invoicedomain.InvoiceRepository,
	refunds refunddomain.RefundRepository,
) *SalesReportHandler {
	return &SalesReportHandler{invoices: invoices, refunds: refunds}
}

// Handle executes the sales report query
func (h *SalesReportHandler) Handle(ctx context.Context, q SalesReportQuery) (*SalesReport, error) {
	report := &SalesReport{
		From:        q.From,
		To:          q.To,
		GrossSales:  decimal.Zero,
		RefundTotal: decimal.Zero,
	}

	invoices, err := h.invoices.FindByDateRange(ctx, q.From, q.To)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*DaySales)
	for i := range invoices {
		if !invoicedomain.DecreasesStock(invoices[i].Status) {
			continue
		}
		total := invoices[i].Total()
		report.InvoiceCount++
		report.GrossSales = report.GrossSales.Add(total)

		day := invoices[i].CreatedAt.Truncate(24 * time.Hour)
		row, ok := byDay[day]
		if !ok {
			row = &DaySales{Date: day, Total: decimal.Zero}
			byDay[day] = row
		}
		row.InvoiceCount++
		row.Total = row.Total.Add(total)
	}

	for _, row := range byDay {
		report.Days = append(report.Days, *row)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date.Before(report.Days[j].Date)
	})

	report.RefundTotal, err = h.refunds.SumAmounts(ctx, q.From, q.To)
	if err != nil {
		return nil, err
	}
	report.NetSales = report.GrossSales.Sub(report.RefundTotal)

	return report, nil
}
