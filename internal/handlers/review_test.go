package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
)

func reviewTestApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	cfg := testConfig()
	handler := NewReviewHandler(db)

	app.Get("/products/:id/reviews", handler.ListProductReviews)
	app.Post("/products/:id/reviews", middleware.AuthMiddleware(cfg), handler.CreateReview)
	app.Get("/reviews/pending", middleware.AuthMiddleware(cfg), handler.ListPendingReviews)
	app.Post("/reviews/:id/:action", middleware.AuthMiddleware(cfg), handler.ModerateReview)
	return app
}

func TestCreateReviewRequiresDeliveredPurchase(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 10)

	resp := doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, user), fiber.Map{"rating": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	seedDeliveredOrder(t, db, user.ID, product.ID, 1)

	resp = doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, user), fiber.Map{"rating": 5})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateReviewUpdatesProductRating(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	product := seedProduct(t, db, "Keyboard", 100, 10)

	first := seedUser(t, db, models.RoleCustomer)
	second := seedUser(t, db, models.RoleCustomer)
	seedDeliveredOrder(t, db, first.ID, product.ID, 1)
	seedDeliveredOrder(t, db, second.ID, product.ID, 1)

	resp := doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, first), fiber.Map{"rating": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, second), fiber.Map{"rating": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.InDelta(t, 3.5, got.RatingAverage, 0.001)
	assert.Equal(t, 2, got.RatingCount)
}

func TestCreateReviewDuplicateConflicts(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 10)
	seedDeliveredOrder(t, db, user.ID, product.ID, 1)

	resp := doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, user), fiber.Map{"rating": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, user), fiber.Map{"rating": 5})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateReviewRejectsBadRating(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 10)
	seedDeliveredOrder(t, db, user.ID, product.ID, 1)

	for _, rating := range []int{0, 6, -1} {
		resp := doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
			bearerFor(t, user), fiber.Map{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCommentHiddenUntilApproved(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)
	manager := seedUser(t, db, models.RoleProductManager)
	product := seedProduct(t, db, "Keyboard", 100, 10)
	seedDeliveredOrder(t, db, user.ID, product.ID, 1)

	resp := doJSON(t, app, http.MethodPost, "/products/"+product.ID.String()+"/reviews",
		bearerFor(t, user), fiber.Map{"rating": 4, "comment": "solid keys"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Rating visible, comment withheld while pending.
	resp = doJSON(t, app, http.MethodGet, "/products/"+product.ID.String()+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	entries := body["data"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.NotNil(t, entry["rating"])
	_, hasComment := entry["comment"]
	assert.False(t, hasComment)

	var review models.Review
	require.NoError(t, db.First(&review, "product_id = ?", product.ID).Error)

	resp = doJSON(t, app, http.MethodPost, "/reviews/"+review.ID.String()+"/approve",
		bearerFor(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/products/"+product.ID.String()+"/reviews", "", nil)
	body = decodeBody(t, resp)
	entry = body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "solid keys", entry["comment"])
}

func TestModerateReviewInvalidAction(t *testing.T) {
	db := openTestDB(t)
	app := reviewTestApp(db)
	manager := seedUser(t, db, models.RoleProductManager)

	resp := doJSON(t, app, http.MethodPost, "/reviews/"+seedProduct(t, db, "X", 1, 1).ID.String()+"/publish",
		bearerFor(t, manager), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
