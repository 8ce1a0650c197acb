package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// ReturnWindow is how long after placement a delivered order item stays
// eligible for return.
const ReturnWindow = 30 * 24 * time.Hour

// ReturnService runs the customer-initiated return workflow: submission,
// sales-manager approval with stock restoration, and decline. Approval
// notifications go out after commit and never affect the transactional
// outcome.
type ReturnService struct {
	db   *gorm.DB
	mail *MailService
}

// NewReturnService constructs a ReturnService.
func NewReturnService(db *gorm.DB, mail *MailService) *ReturnService {
	return &ReturnService{db: db, mail: mail}
}

// Submit files a return request for one order line. A second request for
// the same (order, product, customer) is rejected regardless of the first
// request's status.
func (s *ReturnService) Submit(userID, orderID, productID uuid.UUID, quantity int, reason string) (*models.ReturnRequest, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotEligible
	}

	var existing int64
	if err := s.db.Model(&models.ReturnRequest{}).
		Where("order_id = ? AND product_id = ? AND user_id = ?", orderID, productID, userID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDuplicateReturn
	}

	if order.Status != models.StatusDelivered {
		return nil, ErrNotEligible
	}
	if time.Since(order.PlacedAt) > ReturnWindow {
		return nil, ErrNotEligible
	}

	var item models.OrderItem
	if err := s.db.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEligible
		}
		return nil, err
	}
	if quantity > item.Quantity {
		return nil, ErrInvalidQuantity
	}

	request := models.ReturnRequest{
		OrderID:      orderID,
		ProductID:    productID,
		UserID:       userID,
		Quantity:     quantity,
		Reason:       reason,
		Status:       models.ReturnPending,
		RefundAmount: item.PurchasePrice * float64(quantity),
	}

	// Route the request to a sales manager for review.
	var manager models.User
	if err := s.db.Where("role = ?", models.RoleSalesManager).
		Order("created_at asc").
		First(&manager).Error; err == nil {
		request.AssignedTo = &manager.ID
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// Approve restores stock for the returned quantity and marks the request
// approved, in one transaction. A full-quantity return also marks the
// parent order Refunded. The refund email goes out only after the commit
// and its failure is logged, never surfaced.
func (s *ReturnService) Approve(managerID, requestID uuid.UUID) (*models.ReturnRequest, error) {
	var request models.ReturnRequest
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.ReturnPending {
			return ErrAlreadyResolved
		}

		var item models.OrderItem
		if err := tx.Where("order_id = ? AND product_id = ?", request.OrderID, request.ProductID).
			First(&item).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", request.ProductID).
			Update("stock", gorm.Expr("stock + ?", request.Quantity)).Error; err != nil {
			return err
		}

		request.Status = models.ReturnApproved
		request.ReviewedBy = &managerID
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if err := tx.First(&order, "id = ?", request.OrderID).Error; err != nil {
			return err
		}
		if request.Quantity == item.Quantity {
			order.Status = models.StatusRefunded
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRefund(&request, &order)

	return &request, nil
}

// Decline marks the request declined with an optional note. Stock is never
// touched.
func (s *ReturnService) Decline(managerID, requestID uuid.UUID, note string) (*models.ReturnRequest, error) {
	var request models.ReturnRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.ReturnPending {
			return ErrAlreadyResolved
		}

		request.Status = models.ReturnDeclined
		request.ReviewedBy = &managerID
		request.DecisionNote = note
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (s *ReturnService) notifyRefund(request *models.ReturnRequest, order *models.Order) {
	if s.mail == nil {
		return
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", request.UserID).Error; err != nil {
		log.Printf("[Returns] Failed to load user for refund notification: %v", err)
		return
	}

	var product models.Product
	productName := request.ProductID.String()
	if err := s.db.First(&product, "id = ?", request.ProductID).Error; err == nil {
		productName = product.Name
	}

	if err := s.mail.NotifyRefundApproved(user.Email, user.FirstName, order.OrderNumber, productName, request.Quantity, request.RefundAmount); err != nil {
		log.Printf("[Returns] Refund notification failed for request %s: %v", request.ID, err)
	}
}
