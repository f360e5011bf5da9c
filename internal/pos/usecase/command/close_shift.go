package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	expensedomain "github.com/sellhub/pos-backend/internal/expense/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/pos/domain"
	refunddomain "github.com/sellhub/pos-backend/internal/refund/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// CloseShiftCommand represents the command to close the current shift
type CloseShiftCommand struct {
	CountedCash decimal.Decimal
	Note        string
	UserID      uuid.UUID
}

// ShiftSummary reconciles the drawer at shift end. ExpectedCash assumes all
// sales, refunds, and expenses during the shift moved through the drawer.
type ShiftSummary struct {
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     time.Time       `json:"closed_at"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	InvoiceCount int             `json:"invoice_count"`
	GrossSales   decimal.Decimal `json:"gross_sales"`
	RefundTotal  decimal.Decimal `json:"refund_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	CountedCash  decimal.Decimal `json:"counted_cash"`
	Variance     decimal.Decimal `json:"variance"`
}

// CloseShiftHandler closes the drawer and reconciles sales, refunds, and
// expenses recorded since it was opened
type CloseShiftHandler struct {
	events   domain.DrawerEventRepository
	invoices invoicedomain.InvoiceRepository
	refunds  refunddomain.RefundRepository
	expenses expensedomain.ExpenseRepository
}

// NewCloseShiftHandler creates a new close shift handler
func NewCloseShiftHandler(
	events domain.DrawerEventRepository,
	invoices invoicedomain.InvoiceRepository,
	refunds refunddomain.RefundRepository,
	expenses expensedomain.ExpenseRepository,
) *CloseShiftHandler {
	return &CloseShiftHandler{events: events, invoices: invoices, refunds: refunds, expenses: expenses}
}

// Handle executes the close shift command. The drawer must be open; the
// summary covers the window from the open event to now.
func (h *CloseShiftHandler) Handle(ctx context.Context, cmd CloseShiftCommand) (*ShiftSummary, error) {
	last, err := h.events.FindLast(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrDrawerNotOpen
		}
		return nil, err
	}
	if !last.Opens() {
		return nil, domain.ErrDrawerNotOpen
	}

	now := time.Now()
	summary := &ShiftSummary{
		OpenedAt:     last.CreatedAt,
		ClosedAt:     now,
		OpeningFloat: last.Amount,
		CountedCash:  cmd.CountedCash,
		GrossSales:   decimal.Zero,
		RefundTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	invoices, err := h.invoices.FindByDateRange(ctx, last.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if !invoicedomain.DecreasesStock(invoices[i].Status) {
			continue
		}
		summary.InvoiceCount++
		summary.GrossSales = summary.GrossSales.Add(invoices[i].Total())
	}

	summary.RefundTotal, err = h.refunds.SumAmounts(ctx, last.CreatedAt, now)
	if err != nil {
		return nil, err
	}

	expenses, err := h.expenses.FindByDateRange(ctx, last.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		summary.ExpenseTotal = summary.ExpenseTotal.Add(expenses[i].Amount)
	}

	summary.ExpectedCash = summary.OpeningFloat.
		Add(summary.GrossSales).
		Sub(summary.RefundTotal).
		Sub(summary.ExpenseTotal)
	summary.Variance = cmd.CountedCash.Sub(summary.ExpectedCash)

	event := &domain.DrawerEvent{
		ID:     uuid.New(),
		Kind:   domain.EventShiftClose,
		Amount: cmd.CountedCash,
		Note:   cmd.Note,
		UserID: cmd.UserID,
	}
	if err := h.events.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("user_id", cmd.UserID.String()).
		Str("expected_cash", summary.ExpectedCash.String()).
		Str("variance", summary.Variance.String()).
		Msg("Shift closed")

	return summary, nil
}
