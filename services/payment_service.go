package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"trendora/models"

	"github.com/google/uuid"
)

const paymentCurrency = "usd"

// PaymentService creates payment intents for the user's current cart. The
// intent amount is the cart total plus the cargo fee at creation time; the
// webhook-driven checkout later trusts the charged amount, not a re-price.
type PaymentService struct {
	carts    *CartService
	provider PaymentProvider
}

func NewPaymentService(carts *CartService, provider PaymentProvider) *PaymentService {
	return &PaymentService{carts: carts, provider: provider}
}

// CreateCheckoutIntent prices the cart and opens a payment intent for it.
// The cart is validated against live stock first: charging a customer for a
// line that can no longer be fulfilled is worse than failing the intent.
// Metadata carries the user id so the webhook can attribute the payment, and
// a fresh checkout reference for support lookups.
func (s *PaymentService) CreateCheckoutIntent(ctx context.Context, userID int) (*models.PaymentIntentResponse, error) {
	view, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrCartEmpty
	}

	total := view.CargoFee
	for _, line := range view.Items {
		if line.Quantity > line.StockCount {
			return nil, &InsufficientStockError{
				ProductID:         line.ProductID,
				StockCount:        line.StockCount,
				RequestedQuantity: line.Quantity,
			}
		}
		total += line.Price * float64(line.Quantity)
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: cart total must be positive", ErrValidation)
	}
	amountCents := int64(math.Round(total * 100))

	metadata := map[string]string{
		"user_id":      strconv.Itoa(userID),
		"cart_id":      strconv.Itoa(view.OwnerID),
		"checkout_ref": uuid.NewString(),
	}
	return s.provider.CreatePaymentIntent(amountCents, paymentCurrency, metadata)
}
