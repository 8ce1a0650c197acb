package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// CartHandler manages cart endpoints for both authenticated customers and
// cookie-identified anonymous browsers.
type CartHandler struct {
	carts *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// resolveCart picks the caller's cart: the permanent cart when a bearer
// token is present, otherwise the temporary cart keyed by the fingerprint
// cookie (minted here when absent).
func (h *CartHandler) resolveCart(c *fiber.Ctx) (*models.Cart, error) {
	if identity, ok := middleware.GetIdentity(c); ok && !identity.Anonymous() {
		return h.carts.ResolveForUser(identity.UserID)
	}

	fingerprint := middleware.ResolveFingerprint(c)
	return h.carts.ResolveForFingerprint(fingerprint)
}

// Fetch resolves or creates the caller's cart and returns it with items.
func (h *CartHandler) Fetch(c *fiber.Ctx) error {
	cart, err := h.resolveCart(c)
	if err != nil {
		return serviceError(err)
	}

	full, err := h.carts.Get(cart.ID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(full)})
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AddProduct increments a line item and recomputes cart totals.
func (h *CartHandler) AddProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	req := cartQuantityRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		return serviceError(err)
	}

	if err := h.carts.AddItem(cart.ID, productID, req.Quantity); err != nil {
		return serviceError(err)
	}

	full, err := h.carts.Get(cart.ID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(full)})
}

// RemoveProduct decrements or deletes a line item and recomputes totals.
func (h *CartHandler) RemoveProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	req := cartQuantityRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	cart, err := h.resolveCart(c)
	if err != nil {
		return serviceError(err)
	}

	if err := h.carts.RemoveItem(cart.ID, productID, req.Quantity); err != nil {
		return serviceError(err)
	}

	full, err := h.carts.Get(cart.ID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": cartResponse(full)})
}

func cartResponse(cart *models.Cart) fiber.Map {
	items := make([]fiber.Map, 0, len(cart.Items))
	for _, item := range cart.Items {
		entry := fiber.Map{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		}
		if item.Product != nil {
			entry["name"] = item.Product.Name
			entry["unit_price"] = item.Product.UnitPrice
			entry["discount_percentage"] = item.Product.DiscountPercentage
			entry["discounted_price"] = item.Product.DiscountedPrice()
		}
		items = append(items, entry)
	}

	return fiber.Map{
		"id":           cart.ID,
		"temporary":    cart.Temporary,
		"total_price":  cart.TotalPrice,
		"num_products": cart.NumProducts,
		"items":        items,
	}
}
