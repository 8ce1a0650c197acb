package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/models"
)

func TestWishlistResolveCreatesOnce(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	user := seedUser(t, db, models.RoleCustomer)

	first, err := wishlists.Resolve(user.ID)
	require.NoError(t, err)
	second, err := wishlists.Resolve(user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 0, 10)

	require.NoError(t, wishlists.AddItem(user.ID, product.ID))
	require.NoError(t, wishlists.AddItem(user.ID, product.ID))

	wishlist, err := wishlists.Get(user.ID)
	require.NoError(t, err)
	assert.Len(t, wishlist.Items, 1)
}

func TestWishlistAddMissingProduct(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	user := seedUser(t, db, models.RoleCustomer)

	assert.ErrorIs(t, wishlists.AddItem(user.ID, uuid.New()), ErrNotFound)
}

func TestWishlistRemoveMissingLine(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 0, 10)

	assert.ErrorIs(t, wishlists.RemoveItem(user.ID, product.ID), ErrNotFound)

	require.NoError(t, wishlists.AddItem(user.ID, product.ID))
	require.NoError(t, wishlists.RemoveItem(user.ID, product.ID))
	assert.ErrorIs(t, wishlists.RemoveItem(user.ID, product.ID), ErrNotFound)
}

func TestMoveToCartTransfersLine(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	carts := NewCartService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 10, 5)

	require.NoError(t, wishlists.AddItem(user.ID, product.ID))
	require.NoError(t, wishlists.MoveToCart(user.ID, product.ID))

	wishlist, err := wishlists.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items)

	cart, err := carts.ResolveForUser(user.ID)
	require.NoError(t, err)
	got := fetchCart(t, db, cart.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)
	assert.InDelta(t, 90, got.TotalPrice, 0.001)
}

func TestMoveToCartIncrementsExistingLine(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	carts := NewCartService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 0, 5)

	cart, err := carts.ResolveForUser(user.ID)
	require.NoError(t, err)
	require.NoError(t, carts.AddItem(cart.ID, product.ID, 2))
	require.NoError(t, wishlists.AddItem(user.ID, product.ID))

	require.NoError(t, wishlists.MoveToCart(user.ID, product.ID))

	got := fetchCart(t, db, cart.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestMoveToCartOutOfStockLeavesBothSides(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	carts := NewCartService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 0, 0)

	require.NoError(t, wishlists.AddItem(user.ID, product.ID))

	assert.ErrorIs(t, wishlists.MoveToCart(user.ID, product.ID), ErrOutOfStock)

	// The wishlist line survives and no cart line was created.
	wishlist, err := wishlists.Get(user.ID)
	require.NoError(t, err)
	assert.Len(t, wishlist.Items, 1)

	cart, err := carts.ResolveForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, fetchCart(t, db, cart.ID).Items)
}

func TestMoveToCartMissingLine(t *testing.T) {
	db := openTestDB(t)
	wishlists := NewWishlistService(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 0, 5)

	// No wishlist at all, then a wishlist without the product.
	assert.ErrorIs(t, wishlists.MoveToCart(user.ID, product.ID), ErrNotFound)

	_, err := wishlists.Resolve(user.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, wishlists.MoveToCart(user.ID, product.ID), ErrNotFound)
}
