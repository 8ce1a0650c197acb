package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        uuid.NewString() + "@example.com",
		DisplayName:  "Test User",
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, discount float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Slug:               uuid.NewString(),
		Name:               name,
		UnitPrice:          price,
		DiscountPercentage: discount,
		Stock:              stock,
		ShowProduct:        true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func fetchCart(t *testing.T, db *gorm.DB, cartID uuid.UUID) *models.Cart {
	t.Helper()

	var cart models.Cart
	require.NoError(t, db.Preload("Items").First(&cart, "id = ?", cartID).Error)
	return &cart
}

func fetchProduct(t *testing.T, db *gorm.DB, productID uuid.UUID) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return &product
}
