package models

import "time"

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	OrderID   int       `json:"order_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewWithAuthor struct {
	Review
	AuthorName string `json:"author_name"`
}
