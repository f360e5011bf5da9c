package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sellhub/pos-backend/internal/audit"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
)

// RegisterAuditHandlers subscribes the audit recorder to every business
// event topic, giving the audit log a second feed that survives even when
// the producing request was cancelled after publishing.
func RegisterAuditHandlers(consumer *Consumer, recorder audit.Recorder) {
	consumer.RegisterHandler(EventTypeStockMutated, func(ctx context.Context, eventID string, payload []byte) error {
		var event StockMutatedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal stock mutated event: %w", err)
		}
		recorder.Record(ctx, "StockEntry", auditdomain.ActionCreate, nil, map[string]interface{}{
			"event_id":   eventID,
			"product_id": event.ProductID.String(),
			"delta":      event.Delta,
			"new_qty":    event.NewQty,
			"kind":       event.Kind,
			"ref":        event.Ref,
		})
		return nil
	})

	consumer.RegisterHandler(EventTypeInvoiceIssued, func(ctx context.Context, eventID string, payload []byte) error {
		var event InvoiceIssuedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal invoice issued event: %w", err)
		}
		recorder.Record(ctx, "Invoice", auditdomain.ActionUpdate, nil, map[string]interface{}{
			"event_id":   eventID,
			"invoice_no": event.InvoiceNo,
			"status":     event.Status,
			"total":      event.Total,
		})
		return nil
	})

	consumer.RegisterHandler(EventTypeRefundCreated, func(ctx context.Context, eventID string, payload []byte) error {
		var event RefundCreatedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to unmarshal refund created event: %w", err)
		}
		recorder.Record(ctx, "Refund", auditdomain.ActionCreate, nil, map[string]interface{}{
			"event_id":  eventID,
			"refund_id": event.RefundID.String(),
			"amount":    event.Amount,
		})
		return nil
	})
}
