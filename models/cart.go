package models

import "time"

type CartItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Cart is owned 1:1 by a user. CargoFee is denormalized: it is recomputed and
// persisted on every successful mutation so reads never have to price the cart.
type Cart struct {
	OwnerID   int        `json:"owner_id"`
	Items     []CartItem `json:"items"`
	CargoFee  float64    `json:"cargo_fee"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLineView is a cart line joined with the live product fields the
// storefront renders next to it.
type CartLineView struct {
	ProductID   int     `json:"product_id"`
	Title       string  `json:"title"`
	ImageURL    *string `json:"image_url"`
	CargoWeight float64 `json:"cargo_weight"`
	StockCount  int     `json:"stock_count"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type CartView struct {
	OwnerID   int            `json:"owner_id"`
	Items     []CartLineView `json:"items"`
	CargoFee  float64        `json:"cargo_fee"`
	UpdatedAt time.Time      `json:"updated_at"`
}
