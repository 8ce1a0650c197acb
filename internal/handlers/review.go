package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// ReviewHandler manages product reviews. Ratings count toward the product
// aggregate immediately; comments surface only after product-manager
// approval.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ListProductReviews returns reviews for a product. Comments that await
// moderation are blanked out.
func (h *ReviewHandler) ListProductReviews(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var reviews []models.Review
	if err := h.db.Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(reviews))
	for _, review := range reviews {
		entry := fiber.Map{
			"id":         review.ID,
			"rating":     review.Rating,
			"created_at": review.CreatedAt,
		}
		if review.CommentStatus == models.ReviewApproved {
			entry["comment"] = review.Comment
		}
		out = append(out, entry)
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview records a rating and an optional comment. Only customers
// with a delivered order containing the product may review it.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	// Purchase check: a delivered order of this product is required.
	var purchased int64
	if err := h.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			identity.UserID, models.StatusDelivered, productID).
		Count(&purchased).Error; err != nil {
		return err
	}
	if purchased == 0 {
		return fiber.NewError(fiber.StatusForbidden, "only delivered purchases can be reviewed")
	}

	var existing models.Review
	err = h.db.Where("product_id = ? AND user_id = ?", productID, identity.UserID).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "product already reviewed")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	review := models.Review{
		ProductID:     productID,
		UserID:        identity.UserID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CommentStatus: models.ReviewPending,
	}
	if review.Comment == "" {
		review.CommentStatus = models.ReviewApproved
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeProductRating(tx, productID)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":             review.ID,
		"rating":         review.Rating,
		"comment_status": review.CommentStatus,
	}})
}

// ListPendingReviews returns comments awaiting moderation.
func (h *ReviewHandler) ListPendingReviews(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Review{}).Where("comment_status = ?", models.ReviewPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.Review
	if err := query.Order("created_at asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ModerateReview approves or rejects a pending comment.
func (h *ReviewHandler) ModerateReview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var status string
	switch c.Params("action") {
	case "approve":
		status = models.ReviewApproved
	case "reject":
		status = models.ReviewRejected
	default:
		return fiber.NewError(fiber.StatusBadRequest, "action must be approve or reject")
	}

	result := h.db.Model(&models.Review{}).
		Where("id = ? AND comment_status = ?", id, models.ReviewPending).
		Update("comment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "pending review not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "review " + status})
}

func recomputeProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		RatingAverage float64
		RatingCount   int
	}

	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS rating_average, COUNT(*) AS rating_count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_average": agg.RatingAverage,
			"rating_count":   agg.RatingCount,
		}).Error
}
