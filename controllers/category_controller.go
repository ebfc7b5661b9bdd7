package controllers

import (
	"net/http"
	"strconv"

	"trendora/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// GetRootCategories godoc
// @Summary List root categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (ctrl *CategoryController) GetRootCategories(c *gin.Context) {
	categories, err := ctrl.categories.ListRootCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Categories retrieved", "data": categories})
}

// GetChildren godoc
// @Summary List child categories
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.Category
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/children [get]
func (ctrl *CategoryController) GetChildren(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category id"})
		return
	}

	children, err := ctrl.categories.ListChildren(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Child categories retrieved", "data": children})
}
