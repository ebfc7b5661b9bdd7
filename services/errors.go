package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Controllers map these onto HTTP
// responses; anything else is an internal error that gets logged and hidden
// behind a generic message.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrUpstream         = errors.New("upstream failure")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrNoDefaultAddress = errors.New("no default address")

	// ErrInvalidInput marks a broken programming contract inside the pricing
	// engine. It is never retried and never shown to a client as-is.
	ErrInvalidInput = errors.New("invalid pricing input")
)

// InsufficientStockError rejects a cart mutation that would exceed the
// product's stock. RequestedQuantity carries the rejected target quantity so
// clients can show what was attempted.
type InsufficientStockError struct {
	ProductID         int
	StockCount        int
	RequestedQuantity int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.RequestedQuantity, e.StockCount)
}

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
