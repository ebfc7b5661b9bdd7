package controllers

import (
	"net/http"

	"trendora/config"
	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionController(subscriptions *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

// Subscribe godoc
// @Summary Start a subscription
// @Description Creates a provider subscription and returns the client secret
// for confirming the first payment
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSubscriptionRequest true "Payment method"
// @Success 201 {object} services.SubscriptionCheckout
// @Failure 502 {object} models.ErrorResponse
// @Router /subscriptions [post]
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	var req models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	checkout, err := ctrl.subscriptions.Subscribe(c.Request.Context(), currentUserID(c), req.PaymentMethodID, config.AppConfig.StripeMonthlyPriceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Subscription created", "data": checkout})
}

// ListSubscriptions godoc
// @Summary List my subscriptions
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Router /subscriptions [get]
func (ctrl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	subs, err := ctrl.subscriptions.ListUserSubscriptions(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscriptions retrieved", "data": subs})
}

// CancelSubscription godoc
// @Summary Cancel my subscription at period end
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Provider subscription ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /subscriptions/{id} [delete]
func (ctrl *SubscriptionController) CancelSubscription(c *gin.Context) {
	if err := ctrl.subscriptions.Cancel(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription will cancel at period end"})
}
