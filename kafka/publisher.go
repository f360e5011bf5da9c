package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishStockMutated publishes a stock mutated event with tracing
func (p *Publisher) PublishStockMutated(ctx context.Context, event StockMutatedEvent) error {
	event.EventType = EventTypeStockMutated
	return p.publish(ctx, TopicStockMutated, event.EventType, "product_"+event.ProductID.String(), &event.EventID, &event.Timestamp, &event,
		attribute.String("product.id", event.ProductID.String()),
		attribute.Int("stock.delta", event.Delta),
		attribute.Int("stock.new_qty", event.NewQty),
		attribute.String("stock.kind", event.Kind),
	)
}

// PublishInvoiceIssued publishes an invoice issued event with tracing
func (p *Publisher) PublishInvoiceIssued(ctx context.Context, event InvoiceIssuedEvent) error {
	event.EventType = EventTypeInvoiceIssued
	return p.publish(ctx, TopicInvoiceIssued, event.EventType, "invoice_"+event.InvoiceID.String(), &event.EventID, &event.Timestamp, &event,
		attribute.String("invoice.id", event.InvoiceID.String()),
		attribute.String("invoice.no", event.InvoiceNo),
		attribute.String("invoice.status", event.Status),
	)
}

// PublishRefundCreated publishes a refund created event with tracing
func (p *Publisher) PublishRefundCreated(ctx context.Context, event RefundCreatedEvent) error {
	event.EventType = EventTypeRefundCreated
	return p.publish(ctx, TopicRefundCreated, event.EventType, "refund_"+event.RefundID.String(), &event.EventID, &event.Timestamp, &event,
		attribute.String("refund.id", event.RefundID.String()),
		attribute.String("invoice.id", event.InvoiceID.String()),
		attribute.String("refund.amount", event.Amount),
	)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, key string, eventID *string, timestamp *time.Time, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
		}, attrs...)...),
	)
	defer span.End()

	if *eventID == "" {
		*eventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	*timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", *eventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(eventType),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(*eventID),
		},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", *eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
