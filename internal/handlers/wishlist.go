package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
)

// WishlistHandler manages wishlist endpoints (authenticated customers
// only).
type WishlistHandler struct {
	wishlists *services.WishlistService
}

// NewWishlistHandler constructs WishlistHandler.
func NewWishlistHandler(wishlists *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// Get returns the caller's wishlist with items.
func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	wishlist, err := h.wishlists.Get(identity.UserID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": wishlist})
}

// AddProduct adds a product to the wishlist; duplicates are no-ops.
func (h *WishlistHandler) AddProduct(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.wishlists.AddItem(identity.UserID, productID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "product added to wishlist"})
}

// RemoveProduct removes a product from the wishlist.
func (h *WishlistHandler) RemoveProduct(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.wishlists.RemoveItem(identity.UserID, productID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "product removed from wishlist"})
}

// MoveToCart moves a wishlist line into the customer's cart.
func (h *WishlistHandler) MoveToCart(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.wishlists.MoveToCart(identity.UserID, productID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "product moved to cart"})
}
