package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// TemporaryCartTTL is the freshness window for anonymous carts. Temporary
// carts older than this are ignored and replaced on the next fetch.
const TemporaryCartTTL = 7 * 24 * time.Hour

// CartService owns cart resolution and line-item mutation. Every mutating
// operation recomputes the cached cart aggregates inside the same
// transaction, so totals never disagree with line items once a call
// returns.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs a CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// ResolveForUser finds the single permanent cart for a customer, creating
// one with zeroed totals if absent.
func (s *CartService) ResolveForUser(userID uuid.UUID) (*models.Cart, error) {
	return resolveUserCart(s.db, userID)
}

// ResolveForFingerprint finds a fresh temporary cart for an anonymous
// fingerprint. Expired or missing carts are replaced with a new one.
func (s *CartService) ResolveForFingerprint(fingerprint string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.
		Where("fingerprint = ? AND temporary = ? AND created_at > ?", fingerprint, true, time.Now().Add(-TemporaryCartTTL)).
		Order("created_at desc").
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{Fingerprint: fingerprint, Temporary: true}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

// Get loads a cart with its line items and products.
func (s *CartService) Get(cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Preload("Items.Product").First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem upserts a line item and recomputes the cart aggregates, all in
// one transaction.
func (s *CartService) AddItem(cartID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ? AND show_product = ?", productID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		return recomputeCartAggregates(tx, cartID)
	})
}

// RemoveItem decrements a line item, deleting it when the quantity reaches
// zero, and recomputes the cart aggregates. Removing a line that does not
// exist is NotFound.
func (s *CartService) RemoveItem(cartID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		item.Quantity -= quantity
		if item.Quantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		return recomputeCartAggregates(tx, cartID)
	})
}

func resolveUserCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ? AND temporary = ?", userID, false).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: &userID, Temporary: false}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

// recomputeCartAggregates rewrites the cached totals from the line items.
// Discount changes on a product only reach the aggregates through this
// recompute, on the next add/remove; they are not pushed retroactively.
func recomputeCartAggregates(tx *gorm.DB, cartID uuid.UUID) error {
	var agg struct {
		TotalPrice    float64
		TotalQuantity int
	}

	err := tx.Model(&models.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity * products.unit_price * (1 - products.discount_percentage / 100)), 0) AS total_price, COALESCE(SUM(cart_items.quantity), 0) AS total_quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_price":  agg.TotalPrice,
			"num_products": agg.TotalQuantity,
		}).Error
}
