package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// AdminHandler serves back-office statistics, revenue reporting and role
// management.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate counts for the back-office dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var userCount, productCount, orderCount, pendingReturns, pendingReviews int64

	if err := h.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.ReturnRequest{}).
		Where("status = ?", models.ReturnPending).Count(&pendingReturns).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Review{}).
		Where("comment_status = ? AND comment <> ''", models.ReviewPending).
		Count(&pendingReviews).Error; err != nil {
		return err
	}

	var revenue struct {
		Total float64
	}
	if err := h.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("status <> ?", models.StatusCancelled).
		Scan(&revenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"users":           userCount,
			"products":        productCount,
			"orders":          orderCount,
			"pending_returns": pendingReturns,
			"pending_reviews": pendingReviews,
			"total_revenue":   revenue.Total,
		},
	})
}

type revenueBucket struct {
	Day      string  `json:"day"`
	Orders   int64   `json:"orders"`
	Revenue  float64 `json:"revenue"`
	Refunded float64 `json:"refunded"`
}

// RevenueReport returns revenue totals and per-day buckets for a date
// range. Query params: start, end (YYYY-MM-DD). Defaults to the last 30
// days.
func (h *AdminHandler) RevenueReport(c *fiber.Ctx) error {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		}
		// Inclusive end of day.
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return fiber.NewError(fiber.StatusBadRequest, "end date precedes start date")
	}

	var orders []models.Order
	if err := h.db.
		Where("placed_at >= ? AND placed_at <= ? AND status <> ?", start, end, models.StatusCancelled).
		Order("placed_at ASC").
		Find(&orders).Error; err != nil {
		return err
	}

	var refunds []models.ReturnRequest
	if err := h.db.
		Where("status = ? AND updated_at >= ? AND updated_at <= ?", models.ReturnApproved, start, end).
		Find(&refunds).Error; err != nil {
		return err
	}

	buckets := map[string]*revenueBucket{}
	days := []string{}
	bucketFor := func(day string) *revenueBucket {
		b, ok := buckets[day]
		if !ok {
			b = &revenueBucket{Day: day}
			buckets[day] = b
			days = append(days, day)
		}
		return b
	}

	var totalRevenue, totalRefunded float64
	for _, order := range orders {
		b := bucketFor(order.PlacedAt.Format("2006-01-02"))
		b.Orders++
		b.Revenue += order.TotalPrice
		totalRevenue += order.TotalPrice
	}
	for _, refund := range refunds {
		b := bucketFor(refund.UpdatedAt.Format("2006-01-02"))
		b.Refunded += refund.RefundAmount
		totalRefunded += refund.RefundAmount
	}

	series := make([]revenueBucket, 0, len(days))
	for _, day := range days {
		series = append(series, *buckets[day])
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"start":          start.Format("2006-01-02"),
			"end":            end.Format("2006-01-02"),
			"total_orders":   len(orders),
			"total_revenue":  totalRevenue,
			"total_refunded": totalRefunded,
			"net_revenue":    totalRevenue - totalRefunded,
			"daily":          series,
		},
	})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns a role to a user. Admin only.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Role {
	case models.RoleCustomer, models.RoleProductManager, models.RoleSalesManager, models.RoleAdmin:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown role")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Update("role", req.Role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "role updated"})
}

// ListUsers returns a paginated user list for the back office.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
