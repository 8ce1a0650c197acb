package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// ProductHandler manages catalog reads and product management.
type ProductHandler struct {
	db   *gorm.DB
	mail *services.MailService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, mail *services.MailService) *ProductHandler {
	return &ProductHandler{db: db, mail: mail}
}

// ListProducts returns paginated visible products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("show_product = ?", true)

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.
				Joins("JOIN product_categories ON product_categories.product_id = products.id").
				Where("product_categories.category_id = ?", id)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("unit_price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("unit_price <= ?", val)
		}
	}

	switch c.Query("sort") {
	case "price_asc":
		query = query.Order("unit_price asc")
	case "price_desc":
		query = query.Order("unit_price desc")
	case "popularity":
		query = query.Order("rating_count desc, rating_average desc")
	default:
		query = query.Order("created_at desc")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Categories").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    productListResponse(products),
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads a product with categories and approved reviews.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Categories").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": productResponse(&product)})
}

type productRequest struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Model          string   `json:"model"`
	SerialNumber   string   `json:"serial_number"`
	Distributor    string   `json:"distributor"`
	WarrantyMonths int      `json:"warranty_months"`
	UnitPrice      float64  `json:"unit_price"`
	Stock          int      `json:"stock"`
	ShowProduct    *bool    `json:"show_product"`
	CategoryIDs    []string `json:"category_ids"`
}

// CreateProduct persists a new product (product manager only).
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.UnitPrice < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	product := models.Product{
		Slug:           req.Slug,
		Name:           req.Name,
		Description:    req.Description,
		Model:          req.Model,
		SerialNumber:   req.SerialNumber,
		Distributor:    req.Distributor,
		WarrantyMonths: req.WarrantyMonths,
		UnitPrice:      req.UnitPrice,
		Stock:          req.Stock,
		ShowProduct:    true,
	}
	if req.ShowProduct != nil {
		product.ShowProduct = *req.ShowProduct
	}

	for _, raw := range req.CategoryIDs {
		if id, err := uuid.Parse(raw); err == nil {
			var category models.Category
			if err := h.db.First(&category, "id = ?", id).Error; err == nil {
				product.Categories = append(product.Categories, category)
			}
		}
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": productResponse(&product)})
}

// UpdateProduct updates product fields (product manager only).
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.Distributor != "" {
		updates["distributor"] = req.Distributor
	}
	if req.WarrantyMonths > 0 {
		updates["warranty_months"] = req.WarrantyMonths
	}
	if req.UnitPrice > 0 {
		updates["unit_price"] = req.UnitPrice
	}
	if req.ShowProduct != nil {
		updates["show_product"] = *req.ShowProduct
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": productResponse(&product)})
}

// DeleteProduct removes a product (product manager only).
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// SetStock replaces a product's stock level (product manager only).
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "stock must not be negative")
	}

	result := h.db.Model(&models.Product{}).Where("id = ?", id).Update("stock", req.Stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "stock updated"})
}

type discountRequest struct {
	DiscountPercentage float64 `json:"discount_percentage"`
}

// SetDiscount sets a product's discount percentage (sales manager only)
// and emails every customer who has the product in a wishlist. Existing
// cart aggregates are not touched; they pick up the new price on the next
// cart mutation.
func (h *ProductHandler) SetDiscount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req discountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "discount_percentage must be between 0 and 100")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	if err := h.db.Model(&product).
		Update("discount_percentage", req.DiscountPercentage).Error; err != nil {
		return err
	}
	product.DiscountPercentage = req.DiscountPercentage

	if req.DiscountPercentage > 0 {
		go h.notifyWishlistOwners(product)
	}

	return c.JSON(fiber.Map{"success": true, "data": productResponse(&product)})
}

// notifyWishlistOwners emails everyone holding the product in a wishlist.
// Runs outside the request; failures are logged only.
func (h *ProductHandler) notifyWishlistOwners(product models.Product) {
	var owners []models.User
	err := h.db.Model(&models.User{}).
		Joins("JOIN wishlists ON wishlists.user_id = users.id").
		Joins("JOIN wishlist_items ON wishlist_items.wishlist_id = wishlists.id").
		Where("wishlist_items.product_id = ?", product.ID).
		Find(&owners).Error
	if err != nil {
		log.Printf("[Products] Failed to load wishlist owners for %s: %v", product.ID, err)
		return
	}

	for _, owner := range owners {
		if err := h.mail.NotifyDiscount(owner.Email, owner.FirstName, product.Name,
			product.DiscountPercentage, product.UnitPrice, product.DiscountedPrice()); err != nil {
			log.Printf("[Products] Discount notification to %s failed: %v", owner.Email, err)
		}
	}
}

func productResponse(product *models.Product) fiber.Map {
	return fiber.Map{
		"id":                  product.ID,
		"slug":                product.Slug,
		"name":                product.Name,
		"description":         product.Description,
		"model":               product.Model,
		"serial_number":       product.SerialNumber,
		"distributor":         product.Distributor,
		"warranty_months":     product.WarrantyMonths,
		"unit_price":          product.UnitPrice,
		"discount_percentage": product.DiscountPercentage,
		"discounted_price":    product.DiscountedPrice(),
		"stock":               product.Stock,
		"show_product":        product.ShowProduct,
		"rating_average":      product.RatingAverage,
		"rating_count":        product.RatingCount,
		"categories":          product.Categories,
	}
}

func productListResponse(products []models.Product) []fiber.Map {
	out := make([]fiber.Map, 0, len(products))
	for i := range products {
		out = append(out, productResponse(&products[i]))
	}
	return out
}
