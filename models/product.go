package models

import "time"

type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	CategoryID  int      `json:"category_id"`
	Price       float64  `json:"price"`
	OldPrice    *float64 `json:"old_price,omitempty"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	StockCount  int      `json:"stock_count"`
	Tags        []string `json:"tags"`
	CargoWeight float64  `json:"cargo_weight"`

	// Derived aggregates, mutated only by the review/like flows.
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
	LikeCount     int     `json:"like_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice is the unit price a customer actually pays: the sale price
// when one is set, the base price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
