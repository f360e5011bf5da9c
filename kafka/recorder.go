package kafka

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
)

// EventRecorder decorates an audit recorder and mirrors the recorded
// mutations onto the event bus. The caller keeps its fire-and-forget
// contract: publish failures are logged inside the publisher path and
// never reach the business mutation.
type EventRecorder struct {
	inner     audit.Recorder
	publisher *Publisher
}

// NewEventRecorder creates a recorder that writes the audit trail through
// inner and publishes invoice and refund events for the mutations that
// have one
func NewEventRecorder(inner audit.Recorder, publisher *Publisher) *EventRecorder {
	return &EventRecorder{inner: inner, publisher: publisher}
}

func (r *EventRecorder) Record(ctx context.Context, entity, action string, userID *uuid.UUID, changes map[string]interface{}) {
	r.inner.Record(ctx, entity, action, userID, changes)

	switch entity {
	case "Invoice":
		r.recordInvoice(ctx, action, changes)
	case "Refund":
		if action == auditdomain.ActionCreate {
			r.recordRefund(ctx, changes)
		}
	}
}

func (r *EventRecorder) recordInvoice(ctx context.Context, action string, changes map[string]interface{}) {
	status := stringField(changes, "status")
	if action == auditdomain.ActionUpdate {
		// Status updates are recorded as "old -> new".
		if i := strings.LastIndex(status, "-> "); i >= 0 {
			status = status[i+len("-> "):]
		}
	}
	if action == auditdomain.ActionDelete || !invoicedomain.DecreasesStock(status) {
		return
	}

	id, err := uuid.Parse(stringField(changes, "invoice_id"))
	if err != nil {
		return
	}
	_ = r.publisher.PublishInvoiceIssued(ctx, InvoiceIssuedEvent{
		InvoiceID: id,
		InvoiceNo: stringField(changes, "invoice_no"),
		Status:    status,
		Total:     stringField(changes, "total"),
		Items:     intField(changes, "items"),
	})
}

func (r *EventRecorder) recordRefund(ctx context.Context, changes map[string]interface{}) {
	refundID, err := uuid.Parse(stringField(changes, "refund_id"))
	if err != nil {
		return
	}
	invoiceID, err := uuid.Parse(stringField(changes, "invoice_id"))
	if err != nil {
		return
	}
	_ = r.publisher.PublishRefundCreated(ctx, RefundCreatedEvent{
		RefundID:  refundID,
		InvoiceID: invoiceID,
		Amount:    stringField(changes, "amount"),
		Items:     intField(changes, "items"),
	})
}

func stringField(changes map[string]interface{}, key string) string {
	s, _ := changes[key].(string)
	return s
}

func intField(changes map[string]interface{}, key string) int {
	n, _ := changes[key].(int)
	return n
}
