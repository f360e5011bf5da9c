package kafka

import (
	"time"

	"github.com/google/uuid"
)

// StockMutatedEvent records one applied stock mutation
type StockMutatedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uuid.UUID `json:"product_id"`
	Delta     int       `json:"delta"`
	NewQty    int       `json:"new_qty"`
	Kind      string    `json:"kind"`
	Ref       string    `json:"ref"`
	Timestamp time.Time `json:"timestamp"`
}

// InvoiceIssuedEvent records an invoice entering a stock-consuming status
type InvoiceIssuedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	InvoiceNo string    `json:"invoice_no"`
	Status    string    `json:"status"`
	Total     string    `json:"total"`
	Items     int       `json:"items"`
	Timestamp time.Time `json:"timestamp"`
}

// RefundCreatedEvent records a processed refund
type RefundCreatedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	RefundID  uuid.UUID `json:"refund_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Amount    string    `json:"amount"`
	Items     int       `json:"items"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeStockMutated  = "stock.mutated"
	EventTypeInvoiceIssued = "invoice.issued"
	EventTypeRefundCreated = "refund.created"
)

// Kafka topics
const (
	TopicStockMutated  = "stock-mutated"
	TopicInvoiceIssued = "invoice-issued"
	TopicRefundCreated = "refund-created"
)
