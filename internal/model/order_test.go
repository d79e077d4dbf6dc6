package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"pending", "processing", "shipped", "delivered", "cancelled", "refunded"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(raw), status)
	}

	for _, raw := range []string{"", "Pending", "completed", "shipped "} {
		_, err := ParseOrderStatus(raw)
		assert.Error(t, err, raw)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, raw := range []string{"pending", "paid", "failed", "refunded"} {
		status, err := ParsePaymentStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatus(raw), status)
	}

	_, err := ParsePaymentStatus("charged")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{name: "Pending to processing", from: OrderStatusPending, to: OrderStatusProcessing, allowed: true},
		{name: "Processing to shipped", from: OrderStatusProcessing, to: OrderStatusShipped, allowed: true},
		{name: "Shipped to delivered", from: OrderStatusShipped, to: OrderStatusDelivered, allowed: true},
		{name: "Pending to cancelled", from: OrderStatusPending, to: OrderStatusCancelled, allowed: true},
		{name: "Shipped to refunded", from: OrderStatusShipped, to: OrderStatusRefunded, allowed: true},
		{name: "Skipping processing is not allowed", from: OrderStatusPending, to: OrderStatusShipped, allowed: false},
		{name: "Pending straight to delivered is not allowed", from: OrderStatusPending, to: OrderStatusDelivered, allowed: false},
		{name: "Backwards is not allowed", from: OrderStatusShipped, to: OrderStatusProcessing, allowed: false},
		{name: "Delivered is terminal", from: OrderStatusDelivered, to: OrderStatusRefunded, allowed: false},
		{name: "Cancelled is terminal", from: OrderStatusCancelled, to: OrderStatusProcessing, allowed: false},
		{name: "Refunded is terminal", from: OrderStatusRefunded, to: OrderStatusCancelled, allowed: false},
		{name: "Self transition is not allowed", from: OrderStatusPending, to: OrderStatusPending, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}
