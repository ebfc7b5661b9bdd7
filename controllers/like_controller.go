package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type LikeController struct {
	likes *services.LikeService
}

func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// LikeProduct godoc
// @Summary Like a product
// @Tags Likes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LikeProductRequest true "Product"
// @Success 201 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /likes [post]
func (ctrl *LikeController) LikeProduct(c *gin.Context) {
	var req models.LikeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	if err := ctrl.likes.LikeProduct(c.Request.Context(), currentUserID(c), req.ProductID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product liked"})
}

// UnlikeProduct godoc
// @Summary Remove my like from a product
// @Tags Likes
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /likes/{productId} [delete]
func (ctrl *LikeController) UnlikeProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	if err := ctrl.likes.RemoveLike(c.Request.Context(), currentUserID(c), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Like removed"})
}
