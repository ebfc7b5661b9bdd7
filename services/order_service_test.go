package services

import (
	"context"
	"testing"

	"trendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending ships", models.OrderStatusPending, models.OrderStatusShipping, true},
		{"pending cancels", models.OrderStatusPending, models.OrderStatusCancelled, true},
		{"pending cannot skip to delivered", models.OrderStatusPending, models.OrderStatusDelivered, false},
		{"shipping delivers", models.OrderStatusShipping, models.OrderStatusDelivered, true},
		{"shipping cannot return", models.OrderStatusShipping, models.OrderStatusReturned, false},
		{"delivered returns", models.OrderStatusDelivered, models.OrderStatusReturned, true},
		{"delivered cannot reship", models.OrderStatusDelivered, models.OrderStatusShipping, false},
		{"cancelled is terminal", models.OrderStatusCancelled, models.OrderStatusPending, false},
		{"returned is terminal", models.OrderStatusReturned, models.OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := newMockOrderStore()
			orders.add(&models.Order{ID: 1, UserID: 7, Status: tc.from})
			svc := NewOrderService(orders)

			order, err := svc.UpdateStatus(context.Background(), 1, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.Status)
				stored, _ := orders.FindByID(context.Background(), 1)
				assert.Equal(t, tc.to, stored.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidState)
				stored, _ := orders.FindByID(context.Background(), 1)
				assert.Equal(t, tc.from, stored.Status, "rejected transitions leave the order untouched")
			}
		})
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(newMockOrderStore())

	_, err := svc.UpdateStatus(context.Background(), 42, models.OrderStatusShipping)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserOrderScopedToOwner(t *testing.T) {
	orders := newMockOrderStore()
	orders.add(&models.Order{ID: 1, UserID: 7, Status: models.OrderStatusPending})
	svc := NewOrderService(orders)

	order, err := svc.GetUserOrder(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)

	_, err = svc.GetUserOrder(context.Background(), 8, 1)
	assert.ErrorIs(t, err, ErrNotFound, "other users' orders look like they do not exist")
}

func TestFindByPaymentIntent(t *testing.T) {
	orders := newMockOrderStore()
	orders.add(&models.Order{ID: 1, UserID: 7, Status: models.OrderStatusPending, PaymentIntentID: "pi_123"})
	svc := NewOrderService(orders)

	order, err := svc.FindByPaymentIntent(context.Background(), 7, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)

	_, err = svc.FindByPaymentIntent(context.Background(), 7, "pi_unseen")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.FindByPaymentIntent(context.Background(), 8, "pi_123")
	assert.ErrorIs(t, err, ErrNotFound)
}
