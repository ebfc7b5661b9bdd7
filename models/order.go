package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusReturned  = "returned"
	OrderStatusCancelled = "cancelled"
)

// OrderItem embeds the unit price captured at order-creation time. It is never
// re-read from the product, so later price edits leave historical orders alone.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	DeliveryAddress int         `json:"delivery_address"`
	PaymentIntentID string      `json:"payment_intent_id"`
	Amount          float64     `json:"amount"`
	Currency        string      `json:"currency"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}
