package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// GetCart godoc
// @Summary Get cart
// @Description Get the current user's cart with live product data and cargo fee
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CartView
// @Failure 404 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	view, err := ctrl.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart retrieved", "data": view})
}

// AddItem godoc
// @Summary Add item to cart
// @Description Add a product to the cart, merging quantities for an existing line
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Cart
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	cart, err := ctrl.carts.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart", "data": cart})
}

// DecrementItem godoc
// @Summary Decrement item quantity
// @Description Reduce a cart line's quantity by one, removing it at zero
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DecrementCartItemRequest true "Item"
// @Success 200 {object} models.Cart
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/decrement [post]
func (ctrl *CartController) DecrementItem(c *gin.Context) {
	var req models.DecrementCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	cart, err := ctrl.carts.DecrementItem(c.Request.Context(), currentUserID(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item decremented", "data": cart})
}

// RemoveItem godoc
// @Summary Remove item from cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Success 200 {object} models.Cart
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{productId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	cart, err := ctrl.carts.RemoveItem(c.Request.Context(), currentUserID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed", "data": cart})
}
