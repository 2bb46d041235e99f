package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	t.Run("forward path", func(t *testing.T) {
		path := []OrderStatus{
			OrderStatusPending, OrderStatusPaid, OrderStatusConfirmed,
			OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		}
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, path[i].CanTransitionTo(path[i+1]),
				"%s -> %s should be allowed", path[i], path[i+1])
		}
	})

	t.Run("no skipping ahead", func(t *testing.T) {
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
		assert.False(t, OrderStatusPaid.CanTransitionTo(OrderStatusDelivered))
	})

	t.Run("no going backwards", func(t *testing.T) {
		assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusConfirmed))
		assert.False(t, OrderStatusPaid.CanTransitionTo(OrderStatusPending))
	})

	t.Run("cancel and refund reachable from any non-terminal", func(t *testing.T) {
		for _, s := range []OrderStatus{
			OrderStatusPending, OrderStatusPaid, OrderStatusConfirmed,
			OrderStatusProcessing, OrderStatusShipped,
		} {
			assert.True(t, s.CanTransitionTo(OrderStatusCancelled), "%s -> cancelled", s)
			assert.True(t, s.CanTransitionTo(OrderStatusRefunded), "%s -> refunded", s)
		}
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded} {
			assert.True(t, s.Terminal())
			for _, next := range []OrderStatus{
				OrderStatusPending, OrderStatusPaid, OrderStatusConfirmed,
				OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
				OrderStatusCancelled, OrderStatusRefunded,
			} {
				assert.False(t, s.CanTransitionTo(next), "%s -> %s must be rejected", s, next)
			}
		}
	})
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("  Shipped ")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	_, err = ParseOrderStatus("teleported")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestParsePaymentStatus(t *testing.T) {
	s, err := ParsePaymentStatus("PAID")
	assert.NoError(t, err)
	assert.Equal(t, PaymentPaid, s)

	_, err = ParsePaymentStatus("maybe")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}
