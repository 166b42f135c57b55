package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

// OrderEvent is the payload published for order lifecycle changes.
type OrderEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId,omitempty"`
	OrderStatus string    `json:"orderStatus"`
	TotalPrice  float64   `json:"totalPrice,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher writes order events to Kafka. A nil Publisher is valid and drops
// every event, so callers never need to guard for the brokerless setup.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when no brokers are configured.
func NewPublisher(brokers []string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish is fire-and-forget: a broker failure is logged, never surfaced to
// the HTTP request that triggered the event.
func (p *Publisher) Publish(ctx context.Context, topic string, event OrderEvent) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		log.Println("[EVENTS] [ERROR] marshal failed:", err)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		log.Println("[EVENTS] [ERROR] publish failed:", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
