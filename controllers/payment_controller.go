package controllers

import (
	"log"
	"net/http"
	"strconv"

	"trendora/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	payments      *services.PaymentService
	checkout      *services.CheckoutService
	subscriptions *services.SubscriptionService
	provider      services.PaymentProvider
}

func NewPaymentController(payments *services.PaymentService, checkout *services.CheckoutService, subscriptions *services.SubscriptionService, provider services.PaymentProvider) *PaymentController {
	return &PaymentController{payments: payments, checkout: checkout, subscriptions: subscriptions, provider: provider}
}

// CreatePaymentIntent godoc
// @Summary Create payment intent for the cart
// @Description Prices the current cart (items plus cargo fee) and opens a payment intent
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.PaymentIntentResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /payments/intent [post]
func (ctrl *PaymentController) CreatePaymentIntent(c *gin.Context) {
	intent, err := ctrl.payments.CreateCheckoutIntent(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Payment intent created", "data": intent})
}

// HandleWebhook godoc
// @Summary Payment provider webhook
// @Description Verifies the event signature and dispatches it. Always returns
// 200 once the signature checks out so the provider does not retry events
// whose processing failed locally; failures are logged and reconciled by hand.
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} models.ErrorResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /payments/webhook [post]
func (ctrl *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable payload"})
		return
	}

	event, err := ctrl.provider.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook signature rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	ctx := c.Request.Context()

	switch event.Type {
	case services.EventPaymentSucceeded:
		ctrl.handlePaymentSucceeded(c, event)
		return

	case services.EventPaymentFailed:
		if pi, err := event.PaymentIntent(); err == nil {
			log.Printf("Payment failed for intent %s", pi.ID)
		}

	case services.EventSubscriptionCreated, services.EventSubscriptionUpdated, services.EventSubscriptionDeleted:
		sub, err := event.Subscription()
		if err == nil {
			err = ctrl.subscriptions.ApplySubscriptionUpdate(ctx, sub)
		}
		if err != nil {
			log.Printf("Subscription webhook %s failed: %v", event.Type, err)
		}

	case services.EventInvoicePaySucceeded:
		inv, err := event.Invoice()
		if err == nil {
			err = ctrl.subscriptions.ApplyInvoicePaid(ctx, inv)
		}
		if err != nil {
			log.Printf("Invoice webhook failed: %v", err)
		}

	case services.EventInvoicePayFailed:
		inv, err := event.Invoice()
		if err == nil {
			err = ctrl.subscriptions.ApplyInvoiceFailed(ctx, inv)
		}
		if err != nil {
			log.Printf("Invoice webhook failed: %v", err)
		}

	default:
		// acknowledged, not handled
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event received"})
}

func (ctrl *PaymentController) handlePaymentSucceeded(c *gin.Context, event *services.WebhookEvent) {
	pi, err := event.PaymentIntent()
	if err != nil {
		log.Printf("Payment webhook parse failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event received"})
		return
	}

	userID, err := strconv.Atoi(pi.Metadata["user_id"])
	if err != nil || userID <= 0 {
		log.Printf("Payment intent %s has no usable user_id metadata", pi.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event received"})
		return
	}

	confirmation := services.PaymentConfirmation{
		PaymentIntentID: pi.ID,
		Amount:          float64(pi.Amount) / 100,
		Currency:        pi.Currency,
	}
	result, err := ctrl.checkout.PlaceOrder(c.Request.Context(), userID, confirmation)
	if err != nil {
		log.Printf("Checkout for intent %s failed: %v", pi.ID, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event received"})
		return
	}

	for _, warning := range result.Warnings {
		log.Printf("Checkout warning for order %d: %s", result.Order.ID, warning)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order created", "data": gin.H{"order_id": result.Order.ID}})
}
