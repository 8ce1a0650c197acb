package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// ReturnHandler manages the return/refund workflow endpoints.
type ReturnHandler struct {
	db      *gorm.DB
	returns *services.ReturnService
}

// NewReturnHandler constructs ReturnHandler.
func NewReturnHandler(db *gorm.DB, returns *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{db: db, returns: returns}
}

type submitReturnRequest struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// SubmitReturn files a return request for a delivered order item.
func (h *ReturnHandler) SubmitReturn(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req submitReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	request, err := h.returns.Submit(identity.UserID, orderID, productID, req.Quantity, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": request})
}

// ListPending returns pending return requests for sales managers.
func (h *ReturnHandler) ListPending(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.ReturnRequest{}).Where("status = ?", models.ReturnPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var requests []models.ReturnRequest
	if err := query.Order("created_at asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&requests).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ApproveReturn approves a pending return, restoring stock.
func (h *ReturnHandler) ApproveReturn(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	request, err := h.returns.Approve(identity.UserID, id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": request})
}

type declineReturnRequest struct {
	Reason string `json:"reason"`
}

// RejectReturn declines a pending return. Stock is unchanged.
func (h *ReturnHandler) RejectReturn(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req declineReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	request, err := h.returns.Decline(identity.UserID, id, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": request})
}
