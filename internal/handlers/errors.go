package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/services"
)

// serviceError translates domain errors into HTTP errors. Unknown errors
// pass through and surface as 500s with the message logged server-side.
func serviceError(err error) error {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	case errors.Is(err, services.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "invalid quantity")
	case errors.Is(err, services.ErrNotEligible):
		return fiber.NewError(fiber.StatusBadRequest, "order item is not eligible for return")
	case errors.Is(err, services.ErrOutOfStock):
		return fiber.NewError(fiber.StatusConflict, "product is out of stock")
	case errors.Is(err, services.ErrDuplicateReturn):
		return fiber.NewError(fiber.StatusConflict, "return request already exists for this order item")
	case errors.Is(err, services.ErrAlreadyResolved):
		return fiber.NewError(fiber.StatusConflict, "return request already resolved")
	case errors.Is(err, services.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, "invalid delivery status transition")
	case errors.As(err, &stockErr):
		return fiber.NewError(fiber.StatusConflict, stockErr.Error())
	default:
		return err
	}
}
