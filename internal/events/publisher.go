package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/segmentio/kafka-go"
)

const orderCreatedTopic = "order-created"

// OrderPublisher emits order-created events. Keyed by user ID so a
// user's orders stay in partition order.
type OrderPublisher struct {
	writer *kafka.Writer
}

func NewOrderPublisher(brokers ...string) *OrderPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderCreatedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OrderPublisher{writer: w}
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"items":      order.Items,
		"total":      order.Total,
		"status":     order.Status,
		"created_at": order.CreatedAt,
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_created")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}
