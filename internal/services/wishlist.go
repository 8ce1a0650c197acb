package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// WishlistService owns per-customer wishlists. One wishlist per customer,
// created lazily on first access.
type WishlistService struct {
	db *gorm.DB
}

// NewWishlistService constructs a WishlistService.
func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Resolve finds or creates the customer's wishlist.
func (s *WishlistService) Resolve(userID uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := s.db.Where("user_id = ?", userID).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = models.Wishlist{UserID: userID}
	if err := s.db.Create(&wishlist).Error; err != nil {
		return nil, err
	}

	return &wishlist, nil
}

// Get loads the wishlist with items and products.
func (s *WishlistService) Get(userID uuid.UUID) (*models.Wishlist, error) {
	wishlist, err := s.Resolve(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items.Product").First(wishlist, "id = ?", wishlist.ID).Error; err != nil {
		return nil, err
	}

	return wishlist, nil
}

// AddItem inserts a wishlist line. Adding a product that is already listed
// is a no-op, not an error.
func (s *WishlistService) AddItem(userID, productID uuid.UUID) error {
	wishlist, err := s.Resolve(userID)
	if err != nil {
		return err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var existing models.WishlistItem
	err = s.db.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(&models.WishlistItem{WishlistID: wishlist.ID, ProductID: productID}).Error
}

// RemoveItem deletes a wishlist line.
func (s *WishlistService) RemoveItem(userID, productID uuid.UUID) error {
	wishlist, err := s.Resolve(userID)
	if err != nil {
		return err
	}

	result := s.db.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// MoveToCart transfers a wishlist line into the customer's permanent cart:
// insert the cart line, recompute cart totals, delete the wishlist line,
// as one transaction. Fails with OutOfStock when the product has no stock,
// leaving both sides unchanged.
func (s *WishlistService) MoveToCart(userID, productID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var wishlist models.Wishlist
		if err := tx.Where("user_id = ?", userID).First(&wishlist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var line models.WishlistItem
		if err := tx.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		if product.Stock <= 0 {
			return ErrOutOfStock
		}

		cart, err := resolveUserCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity++
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if err := recomputeCartAggregates(tx, cart.ID); err != nil {
			return err
		}

		return tx.Delete(&line).Error
	})
}
