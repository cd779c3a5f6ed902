package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Phaham/BoogieBites/models"
)

// OrderEventPublisher lets callers publish fulfillment events without
// depending on the concrete Kafka writer.
type OrderEventPublisher interface {
	PublishOrderFulfilled(event models.OrderFulfilledEvent) error
}

type OrderEventProducer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewOrderEventProducer(brokers []string, topic string, logger *zap.Logger) *OrderEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Order event producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &OrderEventProducer{writer: w, topic: topic, logger: logger}
}

func (p *OrderEventProducer) PublishOrderFulfilled(event models.OrderFulfilledEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("Failed to publish order event",
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("Order event published",
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
	)
	return nil
}

func (p *OrderEventProducer) Close() {
	_ = p.writer.Close()
	p.logger.Info("Order event producer closed")
}
