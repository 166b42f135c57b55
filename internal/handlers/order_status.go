package handlers

import "boxmarket-backend/internal/models"

// orderStatusTransitions is the allowed lifecycle graph. Cancellation and
// refunds are only reachable before shipment, except refunds on already
// delivered or completed orders. Cancelled and refunded are terminal.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted, models.OrderStatusRefunded},
	models.OrderStatusCompleted:  {models.OrderStatusRefunded},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

func isValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

func canTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
