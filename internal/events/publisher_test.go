package events

import (
	"context"
	"testing"
	"time"
)

func TestNewPublisherWithoutBrokers(t *testing.T) {
	if p := NewPublisher(nil); p != nil {
		t.Fatal("expected nil publisher when no brokers configured")
	}
	if p := NewPublisher([]string{}); p != nil {
		t.Fatal("expected nil publisher for empty broker list")
	}
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher

	p.Publish(context.Background(), TopicOrderCreated, OrderEvent{
		OrderID:     "abc123",
		OrderStatus: "pending",
		OccurredAt:  time.Now(),
	})

	if err := p.Close(); err != nil {
		t.Fatalf("nil publisher Close should be a no-op, got %v", err)
	}
}

func TestNewPublisherWithBrokers(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})
	if p == nil {
		t.Fatal("expected a publisher when brokers are configured")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
