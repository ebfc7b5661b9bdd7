package controllers

import (
	"net/http"
	"strconv"

	"trendora/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders   *services.OrderService
	checkout *services.CheckoutService
}

func NewOrderController(orders *services.OrderService, checkout *services.CheckoutService) *OrderController {
	return &OrderController{orders: orders, checkout: checkout}
}

// ListOrders godoc
// @Summary List my orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationMeta
// @Router /orders [get]
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	page, limit := parsePagination(c)

	orders, total, err := ctrl.orders.ListUserOrders(c.Request.Context(), currentUserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Orders retrieved",
		"data":    orders,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetOrderByID godoc
// @Summary Get my order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
		return
	}

	order, err := ctrl.orders.GetUserOrder(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order retrieved", "data": order})
}

// GetOrderByPaymentIntent godoc
// @Summary Find order by payment intent
// @Description Poll whether the webhook-driven checkout created an order yet
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param paymentIntentId path string true "Payment intent ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/by-payment/{paymentIntentId} [get]
func (ctrl *OrderController) GetOrderByPaymentIntent(c *gin.Context) {
	order, err := ctrl.orders.FindByPaymentIntent(c.Request.Context(), currentUserID(c), c.Param("paymentIntentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order retrieved", "data": order})
}

// CancelOrder godoc
// @Summary Cancel a pending order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /orders/{id}/cancel [post]
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
		return
	}

	order, err := ctrl.checkout.CancelOrder(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "data": order})
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending shipping delivered returned cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	order, err := ctrl.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "data": order})
}
