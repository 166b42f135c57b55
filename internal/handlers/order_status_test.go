package handlers

import (
	"testing"

	"boxmarket-backend/internal/models"
)

func TestIsValidOrderStatus(t *testing.T) {
	valid := []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	}
	for _, status := range valid {
		if !isValidOrderStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}

	for _, status := range []string{"", "archived", "Pending", "SHIPPED"} {
		if isValidOrderStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusPending, models.OrderStatusRefunded},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		{models.OrderStatusDelivered, models.OrderStatusCompleted},
		{models.OrderStatusDelivered, models.OrderStatusRefunded},
		{models.OrderStatusCompleted, models.OrderStatusRefunded},
	}
	for _, tt := range allowed {
		if !canTransitionOrderStatus(tt.from, tt.to) {
			t.Fatalf("expected transition %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to string }{
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusPending, models.OrderStatusCompleted},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusRefunded},
		{models.OrderStatusDelivered, models.OrderStatusShipped},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusRefunded},
		{models.OrderStatusRefunded, models.OrderStatusPending},
		{models.OrderStatusCompleted, models.OrderStatusDelivered},
	}
	for _, tt := range denied {
		if canTransitionOrderStatus(tt.from, tt.to) {
			t.Fatalf("expected transition %s -> %s to be denied", tt.from, tt.to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range []string{models.OrderStatusCancelled, models.OrderStatusRefunded} {
		if len(orderStatusTransitions[status]) != 0 {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
}
