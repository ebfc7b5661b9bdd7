package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trendora/models"
	"trendora/repositories"
)

// PaymentConfirmation is the slice of a provider webhook event the checkout
// transition needs. Amount and currency are the charged values and stay
// authoritative even when catalog prices drifted after intent creation.
type PaymentConfirmation struct {
	PaymentIntentID string
	Amount          float64
	Currency        string
}

// CheckoutResult reports a completed transition plus any stock reconciliation
// warnings that did not stop it.
type CheckoutResult struct {
	Order    *models.Order
	Warnings []string
}

// CheckoutService turns a confirmed payment into a durable order. The steps
// run in intent order, not one transaction: once the order row exists it
// survives any later stock-decrement failure, which is surfaced as a warning
// and reconciled out of band.
type CheckoutService struct {
	carts     repositories.CartStore
	products  repositories.ProductStore
	orders    repositories.OrderStore
	addresses repositories.AddressStore
	tasks     *TaskQueue
	mailer    Mailer
	userEmail func(ctx context.Context, userID int) (string, error)
}

// Mailer sends transactional mail. Best-effort: checkout never fails on it.
type Mailer interface {
	SendOrderConfirmation(email string, order *models.Order) error
}

func NewCheckoutService(
	carts repositories.CartStore,
	products repositories.ProductStore,
	orders repositories.OrderStore,
	addresses repositories.AddressStore,
	users repositories.UserStore,
	tasks *TaskQueue,
	mailer Mailer,
) *CheckoutService {
	svc := &CheckoutService{
		carts:     carts,
		products:  products,
		orders:    orders,
		addresses: addresses,
		tasks:     tasks,
		mailer:    mailer,
	}
	if users != nil {
		svc.userEmail = func(ctx context.Context, userID int) (string, error) {
			u, err := users.FindByID(ctx, userID)
			if err != nil {
				return "", err
			}
			return u.Email, nil
		}
	}
	return svc
}

// PlaceOrder runs the checkout transition for a captured payment:
//
//  1. resolve the default address; abort without one (the payment is already
//     captured, so this is a known reconciliation gap, not a refund path),
//  2. re-read the cart and snapshot per-line effective prices,
//  3. create the pending order with the charged amount and currency,
//  4. empty the cart,
//  5. decrement stock per line; races that would push stock negative are
//     reported as warnings and never roll back the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int, confirmation PaymentConfirmation) (*CheckoutResult, error) {
	address, err := s.addresses.GetDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoDefaultAddress
		}
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	productIDs := make([]int, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		product, ok := byID[cartItem.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d no longer in catalog", ErrInvalidState, cartItem.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  cartItem.Quantity,
			Price:     product.EffectivePrice(),
		})
	}

	order := &models.Order{
		UserID:          userID,
		DeliveryAddress: address.ID,
		PaymentIntentID: confirmation.PaymentIntentID,
		Amount:          confirmation.Amount,
		Currency:        confirmation.Currency,
		Status:          models.OrderStatusPending,
		Items:           items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	result := &CheckoutResult{Order: order}

	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("failed to clear cart for user %d after order %d: %v", userID, order.ID, err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("cart not cleared for order %d", order.ID))
	}

	for _, item := range order.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("stock decrement failed for product %d (order %d, qty %d): %v",
				item.ProductID, order.ID, item.Quantity, err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("stock not reconciled for product %d", item.ProductID))
		}
	}

	s.enqueueConfirmationEmail(userID, order)
	return result, nil
}

// CancelOrder flips a pending order to cancelled and restores its stock
// through the background queue. Non-pending orders cannot be cancelled by the
// user.
func (s *CheckoutService) CancelOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orders.FindUserOrder(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", ErrInvalidState)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled

	items := order.Items
	if s.tasks != nil {
		s.tasks.Enqueue(Task{
			Name: fmt.Sprintf("restock-order-%d", orderID),
			Run: func(ctx context.Context) error {
				for _, item := range items {
					if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
				return nil
			},
		})
	}

	return order, nil
}

func (s *CheckoutService) enqueueConfirmationEmail(userID int, order *models.Order) {
	if s.tasks == nil || s.mailer == nil || s.userEmail == nil {
		return
	}
	s.tasks.Enqueue(Task{
		Name: fmt.Sprintf("order-confirmation-%d", order.ID),
		Run: func(ctx context.Context) error {
			email, err := s.userEmail(ctx, userID)
			if err != nil {
				return err
			}
			return s.mailer.SendOrderConfirmation(email, order)
		},
	})
}
