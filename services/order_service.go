package services

import (
	"context"
	"errors"
	"fmt"

	"trendora/models"
	"trendora/repositories"
)

// validOrderTransitions is the fulfillment state machine. Cancellation of a
// pending order goes through CheckoutService.CancelOrder so stock restocking
// happens with it.
var validOrderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusShipping, models.OrderStatusCancelled},
	models.OrderStatusShipping:  {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {models.OrderStatusReturned},
}

type OrderService struct {
	orders repositories.OrderStore
}

func NewOrderService(orders repositories.OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orders.FindUserOrder(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

// FindByPaymentIntent lets the frontend poll whether the webhook-driven
// checkout has landed yet for a given payment.
func (s *OrderService) FindByPaymentIntent(ctx context.Context, userID int, paymentIntentID string) (*models.Order, error) {
	order, err := s.orders.FindByPaymentIntent(ctx, userID, paymentIntentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no order for this payment yet", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the fulfillment state machine. Admin
// only; invalid transitions are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	allowed := false
	for _, next := range validOrderTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
