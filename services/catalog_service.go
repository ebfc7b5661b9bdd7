package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"trendora/models"
	"trendora/repositories"
)

// CatalogService is the storefront read side plus the admin write side of the
// product catalog. Browsing also feeds the activity log that the trending and
// suggestion features consume.
type CatalogService struct {
	products   repositories.ProductStore
	activity   repositories.ActivityStore
	categories *CategoryService
}

func NewCatalogService(products repositories.ProductStore, activity repositories.ActivityStore, categories *CategoryService) *CatalogService {
	return &CatalogService{products: products, activity: activity, categories: categories}
}

func (s *CatalogService) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	return s.products.List(ctx, page, limit)
}

// ListByCategory includes products from every active descendant category.
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID, page, limit int) ([]models.Product, int, error) {
	ids, err := s.categories.DescendantIDs(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	return s.products.ListByCategoryIDs(ctx, ids, page, limit)
}

// Search runs a full-text search. Queries from signed-in users are recorded
// for trending aggregation; a failed write never fails the search.
func (s *CatalogService) Search(ctx context.Context, userID int, query string, categoryID, page, limit int) ([]models.Product, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("%w: search query is required", ErrValidation)
	}

	if userID > 0 {
		if err := s.activity.RecordSearchTerm(ctx, userID, query); err != nil {
			log.Printf("Failed to record search term for user %d: %v", userID, err)
		}
	}
	return s.products.Search(ctx, query, categoryID, page, limit)
}

// GetProduct returns the detail view and records the visit for signed-in
// users.
func (s *CatalogService) GetProduct(ctx context.Context, userID, productID int) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	if userID > 0 {
		if err := s.activity.RecordProductView(ctx, userID, productID); err != nil {
			log.Printf("Failed to record product view for user %d: %v", userID, err)
		}
	}
	return product, nil
}

func (s *CatalogService) ListDeals(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	return s.products.ListDeals(ctx, page, limit)
}

// BestOf returns the precomputed weekly or monthly best sellers.
func (s *CatalogService) BestOf(ctx context.Context, period string) ([]models.Product, error) {
	if period != models.BestOfPeriodWeek && period != models.BestOfPeriodMonth {
		return nil, fmt.Errorf("%w: period must be %q or %q", ErrValidation, models.BestOfPeriodWeek, models.BestOfPeriodMonth)
	}

	best, err := s.activity.GetBestOf(ctx, period)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return []models.Product{}, nil
		}
		return nil, err
	}
	if len(best.ProductIDs) == 0 {
		return []models.Product{}, nil
	}
	products, err := s.products.FindByIDs(ctx, best.ProductIDs)
	if err != nil {
		return nil, err
	}
	return orderByIDs(products, best.ProductIDs), nil
}

// orderByIDs re-sorts store results into the order of a ranked id list.
// FindByIDs makes no ordering promise, so ranked consumers restore it here.
func orderByIDs(products []models.Product, ids []int) []models.Product {
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) TrendingSearches(ctx context.Context) ([]models.TrendingSearch, error) {
	return s.activity.ListTrendingSearches(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req models.CreateProductRequest, imageURLs []string) (*models.Product, error) {
	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		ImageURLs:   imageURLs,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		StockCount:  req.StockCount,
		Tags:        req.Tags,
		CargoWeight: req.CargoWeight,
	}
	if product.SalePrice != nil && *product.SalePrice >= product.Price {
		return nil, fmt.Errorf("%w: sale price must be below the regular price", ErrValidation)
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID int, req models.UpdateProductRequest, imageURLs []string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.CategoryID > 0 {
		product.CategoryID = req.CategoryID
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.SalePrice != nil {
		if *req.SalePrice <= 0 {
			product.SalePrice = nil
		} else {
			product.SalePrice = req.SalePrice
		}
	}
	if req.StockCount != nil {
		product.StockCount = *req.StockCount
	}
	if req.CargoWeight > 0 {
		product.CargoWeight = req.CargoWeight
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if len(imageURLs) > 0 {
		product.ImageURLs = imageURLs
	}
	if product.SalePrice != nil && *product.SalePrice >= product.Price {
		return nil, fmt.Errorf("%w: sale price must be below the regular price", ErrValidation)
	}
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID int) error {
	err := s.products.Delete(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return err
}
