package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type TrialController struct {
	trials *services.TrialService
}

func NewTrialController(trials *services.TrialService) *TrialController {
	return &TrialController{trials: trials}
}

// StartTrial godoc
// @Summary Start a product trial
// @Description Subscribers can borrow one trial product at a time
// @Tags Trials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.StartTrialRequest true "Trial product"
// @Success 201 {object} models.Trial
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /trials [post]
func (ctrl *TrialController) StartTrial(c *gin.Context) {
	var req models.StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	trial, err := ctrl.trials.StartTrial(c.Request.Context(), currentUserID(c), req.TrialProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Trial started", "data": trial})
}

// GetActiveTrial godoc
// @Summary Get my current trial
// @Tags Trials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TrialDetails
// @Failure 404 {object} models.ErrorResponse
// @Router /trials/active [get]
func (ctrl *TrialController) GetActiveTrial(c *gin.Context) {
	details, err := ctrl.trials.ActiveTrial(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trial retrieved", "data": details})
}

// GetAllTrialProducts godoc
// @Summary List trial products
// @Tags Trials
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param category_id query int false "Category ID (includes descendants)"
// @Success 200 {object} models.PaginationMeta
// @Router /trial-products [get]
func (ctrl *TrialController) GetAllTrialProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	var (
		products []models.TrialProduct
		total    int
		err      error
	)
	if categoryID, convErr := strconv.Atoi(c.Query("category_id")); convErr == nil && categoryID > 0 {
		products, total, err = ctrl.trials.TrialProductsByCategory(c.Request.Context(), categoryID, page, limit)
	} else {
		products, total, err = ctrl.trials.ListTrialProducts(c.Request.Context(), page, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Trial products retrieved",
		"data":    products,
		"meta":    paginationMeta(page, limit, total),
	})
}

// SearchTrialProducts godoc
// @Summary Search trial products
// @Tags Trials
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationMeta
// @Failure 400 {object} models.ErrorResponse
// @Router /trial-products/search [get]
func (ctrl *TrialController) SearchTrialProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	products, total, err := ctrl.trials.SearchTrialProducts(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Search results",
		"data":    products,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetLatestTrialProducts godoc
// @Summary Latest trial products
// @Tags Trials
// @Produce json
// @Param limit query int false "How many to return" default(8)
// @Success 200 {array} models.TrialProduct
// @Router /trial-products/latest [get]
func (ctrl *TrialController) GetLatestTrialProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 8
	}

	products, err := ctrl.trials.LatestTrialProducts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Latest trial products", "data": products})
}

// GetTrialProductByID godoc
// @Summary Get trial product detail
// @Tags Trials
// @Produce json
// @Param id path int true "Trial product ID"
// @Success 200 {object} models.TrialProduct
// @Failure 404 {object} models.ErrorResponse
// @Router /trial-products/{id} [get]
func (ctrl *TrialController) GetTrialProductByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid trial product id"})
		return
	}

	product, err := ctrl.trials.GetTrialProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trial product retrieved", "data": product})
}
