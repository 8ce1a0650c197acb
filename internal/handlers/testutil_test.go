package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

const testSecret = "test-secret"

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

func testConfig() *config.Config {
	return &config.Config{
		AppPort:      "0",
		JWTSecret:    testSecret,
		TokenExpires: time.Hour,
	}
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: fiber.DefaultErrorHandler,
	})
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

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Slug:        uuid.NewString(),
		Name:        name,
		UnitPrice:   price,
		Stock:       stock,
		ShowProduct: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// seedDeliveredOrder creates a delivered order with one line so that the
// user passes the verified-purchase check.
func seedDeliveredOrder(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, quantity int) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:      userID,
		OrderNumber: "ORD-" + uuid.NewString()[:9],
		DeliveryID:  "DLV-" + uuid.NewString()[:9],
		Status:      models.StatusDelivered,
		PlacedAt:    time.Now(),
		Items: []models.OrderItem{{
			ProductID:     productID,
			Quantity:      quantity,
			PurchasePrice: 100,
			LineTotal:     100 * float64(quantity),
		}},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(testSecret, user.ID, user.Role, user.DisplayName, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
