package models

import "github.com/google/uuid"

// Cart holds line items for either a logged-in customer (permanent) or an
// anonymous browser identified by a fingerprint cookie (temporary, 7-day
// freshness window). TotalPrice and NumProducts are cached aggregates that
// are recomputed from the line items after every mutating operation.
type Cart struct {
	BaseModel
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Fingerprint string     `gorm:"index" json:"fingerprint,omitempty"`
	Temporary   bool       `json:"temporary"`
	TotalPrice  float64    `json:"total_price"`
	NumProducts int        `json:"num_products"`
	Items       []CartItem `json:"items,omitempty"`
}

// CartItem is one product line in a cart. Unique per (cart, product);
// removed entirely once its quantity reaches zero.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
}

// Wishlist mirrors the cart's fetch-or-create shape but carries no
// quantities and no cached totals. One per customer, created lazily.
type Wishlist struct {
	BaseModel
	UserID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []WishlistItem `json:"items,omitempty"`
}

type WishlistItem struct {
	BaseModel
	WishlistID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_wishlist_product" json:"wishlist_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_product" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
}
