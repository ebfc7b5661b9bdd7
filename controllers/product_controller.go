package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalog *services.CatalogService
	images  *services.ImageService
}

func NewProductController(catalog *services.CatalogService, images *services.ImageService) *ProductController {
	return &ProductController{catalog: catalog, images: images}
}

// GetAllProducts godoc
// @Summary List products
// @Description Paginated product list, optionally filtered by category subtree
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param category_id query int false "Category ID (includes descendants)"
// @Success 200 {object} models.PaginationMeta
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	var (
		products []models.Product
		total    int
		err      error
	)
	if categoryID, convErr := strconv.Atoi(c.Query("category_id")); convErr == nil && categoryID > 0 {
		products, total, err = ctrl.catalog.ListByCategory(c.Request.Context(), categoryID, page, limit)
	} else {
		products, total, err = ctrl.catalog.ListProducts(c.Request.Context(), page, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Products retrieved",
		"data":    products,
		"meta":    paginationMeta(page, limit, total),
	})
}

// SearchProducts godoc
// @Summary Search products
// @Description Full-text product search. Signed-in searches feed trending aggregation.
// @Tags Products
// @Produce json
// @Param q query string true "Search query"
// @Param category_id query int false "Category filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationMeta
// @Failure 400 {object} models.ErrorResponse
// @Router /products/search [get]
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	page, limit := parsePagination(c)
	categoryID, _ := strconv.Atoi(c.Query("category_id"))

	products, total, err := ctrl.catalog.Search(c.Request.Context(), currentUserID(c), c.Query("q"), categoryID, page, limit)
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

// GetProductByID godoc
// @Summary Get product detail
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	product, err := ctrl.catalog.GetProduct(c.Request.Context(), currentUserID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product retrieved", "data": product})
}

// GetDeals godoc
// @Summary List discounted products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationMeta
// @Router /products/deals [get]
func (ctrl *ProductController) GetDeals(c *gin.Context) {
	page, limit := parsePagination(c)

	products, total, err := ctrl.catalog.ListDeals(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deals retrieved",
		"data":    products,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetBestOf godoc
// @Summary Best sellers of a period
// @Description Precomputed weekly or monthly best sellers
// @Tags Products
// @Produce json
// @Param period path string true "Period" Enums(week, month)
// @Success 200 {array} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /products/best-of/{period} [get]
func (ctrl *ProductController) GetBestOf(c *gin.Context) {
	products, err := ctrl.catalog.BestOf(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Best sellers retrieved", "data": products})
}

// GetTrendingSearches godoc
// @Summary Trending search terms
// @Tags Products
// @Produce json
// @Success 200 {array} models.TrendingSearch
// @Router /products/trending-searches [get]
func (ctrl *ProductController) GetTrendingSearches(c *gin.Context) {
	trending, err := ctrl.catalog.TrendingSearches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trending searches retrieved", "data": trending})
}

// CreateProduct godoc
// @Summary Create product
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param price formData number true "Price"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	imageURLs, err := ctrl.uploadImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	product, err := ctrl.catalog.CreateProduct(c.Request.Context(), req, imageURLs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "data": product})
}

// UpdateProduct godoc
// @Summary Update product
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [patch]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	imageURLs, err := ctrl.uploadImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	product, err := ctrl.catalog.UpdateProduct(c.Request.Context(), productID, req, imageURLs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "data": product})
}

// DeleteProduct godoc
// @Summary Delete product
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	if err := ctrl.catalog.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (ctrl *ProductController) uploadImages(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || ctrl.images == nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	return ctrl.images.UploadProductImages(c.Request.Context(), files)
}
