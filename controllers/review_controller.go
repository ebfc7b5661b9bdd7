package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// CreateReview godoc
// @Summary Create a review
// @Description Review a product from one of your delivered orders
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateReviewRequest true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /reviews [post]
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	review, err := ctrl.reviews.CreateReview(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review created", "data": review})
}

// DeleteReview godoc
// @Summary Delete my review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id} [delete]
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	if err := ctrl.reviews.DeleteComment(c.Request.Context(), currentUserID(c), reviewID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// ListProductReviews godoc
// @Summary List reviews for a product
// @Tags Reviews
// @Produce json
// @Param id path int true "Product ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationMeta
// @Router /products/{id}/reviews [get]
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}
	page, limit := parsePagination(c)

	reviews, total, err := ctrl.reviews.ListProductReviews(c.Request.Context(), productID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reviews retrieved",
		"data":    reviews,
		"meta":    paginationMeta(page, limit, total),
	})
}

// ReviewableProducts godoc
// @Summary Products in an order still awaiting my review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {array} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id}/reviewable [get]
func (ctrl *ReviewController) ReviewableProducts(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
		return
	}

	products, err := ctrl.reviews.ReviewableProducts(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reviewable products retrieved", "data": products})
}
