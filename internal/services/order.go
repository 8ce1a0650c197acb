package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// OrderService converts carts into immutable orders and drives the
// delivery status machine.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder snapshots the customer's permanent cart into an order in a
// single transaction: verify and decrement stock per line, capture the
// discounted price of record, insert the order and its items, then clear
// the cart. Any failure rolls everything back; stock decrements and order
// rows never persist independently of each other.
func (s *OrderService) PlaceOrder(userID uuid.UUID, addressID *uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ? AND temporary = ?", userID, false).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		var lines []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			UserID:           userID,
			OrderNumber:      generateReference("ORD"),
			DeliveryID:       generateReference("DLV"),
			Status:           models.StatusProcessing,
			PlacedAt:         time.Now(),
			EstimatedArrival: time.Now().Add(72 * time.Hour),
		}

		if addressID != nil {
			var address models.Address
			if err := tx.First(&address, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			order.DeliveryAddressID = &address.ID
			order.AddressLine = address.AddressLine
			order.City = address.City
			order.PostalCode = address.PostalCode
		}

		var total float64
		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				return err
			}

			// The stock >= quantity predicate makes the check and the
			// decrement a single atomic statement.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   line.Quantity,
				}
			}

			price := product.DiscountedPrice()
			order.Items = append(order.Items, models.OrderItem{
				ProductID:     line.ProductID,
				ProductName:   product.Name,
				Quantity:      line.Quantity,
				PurchasePrice: price,
				LineTotal:     price * float64(line.Quantity),
			})
			total += price * float64(line.Quantity)
		}

		order.TotalPrice = total
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Cart{}).
			Where("id = ?", cart.ID).
			Updates(map[string]interface{}{"total_price": 0, "num_products": 0}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// Cancel moves an owner's order to Cancelled and restores stock for every
// item. Orders already In-transit can still be cancelled; Delivered and
// terminal orders cannot.
func (s *OrderService) Cancel(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !models.CanTransition(order.Status, models.StatusCancelled) {
			return ErrInvalidTransition
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		order.Status = models.StatusCancelled
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateDeliveryStatus advances an order along the forward-only delivery
// chain (Processing → In-transit → Delivered). Refunded is never reachable
// through this path.
func (s *OrderService) UpdateDeliveryStatus(orderID uuid.UUID, status string) (*models.Order, error) {
	if status != models.StatusInTransit && status != models.StatusDelivered {
		return nil, ErrInvalidTransition
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !models.CanTransition(order.Status, status) {
			return ErrInvalidTransition
		}

		order.Status = status
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func generateReference(prefix string) string {
	max := big.NewInt(1_000_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%1_000_000_000)
	}
	return fmt.Sprintf("%s-%09d", prefix, n.Int64())
}
