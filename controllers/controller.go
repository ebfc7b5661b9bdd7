package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses with the standard
// envelope. Unknown errors become a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success":            false,
			"message":            "Insufficient stock",
			"product_id":         stockErr.ProductID,
			"stock_count":        stockErr.StockCount,
			"requested_quantity": stockErr.RequestedQuantity,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidState):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrCartEmpty):
		status, message = http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, services.ErrNoDefaultAddress):
		status, message = http.StatusUnprocessableEntity, "No default delivery address"
	case errors.Is(err, services.ErrUpstream):
		status, message = http.StatusBadGateway, "Upstream service error"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

func currentUserID(c *gin.Context) int {
	if id, exists := c.Get("user_id"); exists {
		if userID, ok := id.(int); ok {
			return userID
		}
	}
	return 0
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginationMeta(page, limit, total int) models.PaginationMeta {
	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
