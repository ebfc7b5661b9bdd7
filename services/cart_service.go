package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trendora/models"
	"trendora/repositories"
)

// CartService owns the per-user cart aggregate. Every successful mutation
// leaves the persisted cargo fee consistent with the cart's contents as of the
// product prices read during that mutation.
//
// There is deliberately no lock spanning read, stock check and write: two
// concurrent mutations for the same user can race and the later write wins.
// Closing that gap (optimistic versioning or a per-user queue) is a deployment
// decision, not something this layer hides.
type CartService struct {
	carts    repositories.CartStore
	products repositories.ProductStore
	pricer   *Pricer
}

func NewCartService(carts repositories.CartStore, products repositories.ProductStore, pricer *Pricer) *CartService {
	return &CartService{carts: carts, products: products, pricer: pricer}
}

// GetCart returns the cart joined with live product data. A user without a
// cart row gets ErrNotFound; provisioning creates the row at signup.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	products, err := s.resolveProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		OwnerID:   cart.OwnerID,
		Items:     []models.CartLineView{},
		CargoFee:  cart.CargoFee,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			// product deleted from catalog, skip the stale line
			continue
		}
		line := models.CartLineView{
			ProductID:   p.ID,
			Title:       p.Title,
			CargoWeight: p.CargoWeight,
			StockCount:  p.StockCount,
			Price:       p.EffectivePrice(),
			Quantity:    item.Quantity,
		}
		if len(p.ImageURLs) > 0 {
			line.ImageURL = &p.ImageURLs[0]
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// AddItem merges qty into an existing line or creates one, validating against
// live stock. On a merge overflow the line keeps its pre-merge quantity and
// the returned error carries the rejected target quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		if err := s.carts.CreateCart(ctx, userID); err != nil {
			return nil, err
		}
		cart = &models.Cart{OwnerID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		return nil, err
	}

	targetQty := qty
	for _, item := range cart.Items {
		if item.ProductID == productID {
			targetQty = item.Quantity + qty
			break
		}
	}

	if targetQty > product.StockCount {
		return nil, &InsufficientStockError{
			ProductID:         productID,
			StockCount:        product.StockCount,
			RequestedQuantity: targetQty,
		}
	}

	if err := s.carts.UpsertItem(ctx, userID, productID, targetQty); err != nil {
		return nil, err
	}

	return s.reload(ctx, userID)
}

// RemoveItem deletes the line entirely.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int) (*models.Cart, error) {
	if _, err := s.requireCart(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reload(ctx, userID)
}

// DecrementItem reduces the line's quantity by exactly one, removing the line
// when it would drop below one.
func (s *CartService) DecrementItem(ctx context.Context, userID, productID int) (*models.Cart, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var current int
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			current = item.Quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	if current <= 1 {
		if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
			return nil, err
		}
	} else {
		if err := s.carts.UpsertItem(ctx, userID, productID, current-1); err != nil {
			return nil, err
		}
	}

	return s.reload(ctx, userID)
}

// GetProductIDs lists the product ids currently in the user's cart.
func (s *CartService) GetProductIDs(ctx context.Context, userID int) ([]int, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	return ids, nil
}

func (s *CartService) requireCart(ctx context.Context, userID int) (*models.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cart, nil
}

// reload re-reads the cart, reprices it against live products and persists the
// resulting cargo fee before handing the cart back. The fee is eventually
// consistent with the prices read here, not transactional with the mutation.
func (s *CartService) reload(ctx context.Context, userID int) (*models.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	fee, err := s.computeFee(ctx, cart)
	if err != nil {
		// pricing contract errors are programming bugs, surface them
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		log.Printf("cargo fee recompute failed for user %d: %v", userID, err)
		return cart, nil
	}

	if err := s.carts.SetCargoFee(ctx, userID, fee); err != nil {
		log.Printf("cargo fee persist failed for user %d: %v", userID, err)
		return cart, nil
	}
	cart.CargoFee = fee
	return cart, nil
}

func (s *CartService) computeFee(ctx context.Context, cart *models.Cart) (float64, error) {
	if cart == nil {
		return 0, ErrInvalidInput
	}
	products, err := s.resolveProducts(ctx, cart.Items)
	if err != nil {
		return 0, err
	}

	lines := make([]PricedLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, PricedLine{Product: p, Quantity: item.Quantity})
	}

	_, fee, err := s.pricer.Price(lines)
	return fee, err
}

func (s *CartService) resolveProducts(ctx context.Context, items []models.CartItem) (map[int]*models.Product, error) {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
