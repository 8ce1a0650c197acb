package services

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the service layer. Handlers translate these to
// HTTP statuses; anything else is an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrDuplicateReturn   = errors.New("return request already exists for this order item")
	ErrNotEligible       = errors.New("order item is not eligible for return")
	ErrAlreadyResolved   = errors.New("return request already resolved")
	ErrInvalidTransition = errors.New("invalid delivery status transition")
)

// InsufficientStockError names the product that failed the stock check so
// the caller can report which line blocked the order.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}
