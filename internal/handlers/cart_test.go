package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

func cartTestApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	cfg := testConfig()
	handler := NewCartHandler(services.NewCartService(db))

	cart := app.Group("/cart", middleware.OptionalAuthMiddleware(cfg))
	cart.Get("/", handler.Fetch)
	cart.Post("/items/:productID", handler.AddProduct)
	cart.Delete("/items/:productID", handler.RemoveProduct)
	return app
}

func fingerprintCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.FingerprintCookie {
			return cookie
		}
	}
	return nil
}

func TestAnonymousCartMintsFingerprintCookie(t *testing.T) {
	db := openTestDB(t)
	app := cartTestApp(db)

	resp := doJSON(t, app, http.MethodGet, "/cart/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := fingerprintCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["temporary"])
}

func TestAnonymousCartPersistsAcrossRequests(t *testing.T) {
	db := openTestDB(t)
	app := cartTestApp(db)
	product := seedProduct(t, db, "Keyboard", 100, 10)

	resp := doJSON(t, app, http.MethodGet, "/cart/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := fingerprintCookie(resp)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/cart/items/"+product.ID.String(), nil)
	req.AddCookie(cookie)
	added, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, added.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.AddCookie(cookie)
	fetched, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, fetched.StatusCode)

	data := decodeBody(t, fetched)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].(map[string]interface{})["quantity"])
	assert.EqualValues(t, 100, data["total_price"])
}

func TestAuthenticatedCartIsPermanent(t *testing.T) {
	db := openTestDB(t)
	app := cartTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)
	product := seedProduct(t, db, "Keyboard", 100, 10)

	resp := doJSON(t, app, http.MethodPost, "/cart/items/"+product.ID.String(),
		bearerFor(t, user), fiber.Map{"quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, false, data["temporary"])
	assert.EqualValues(t, 200, data["total_price"])
	assert.EqualValues(t, 2, data["num_products"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	app := cartTestApp(db)
	user := seedUser(t, db, models.RoleCustomer)

	resp := doJSON(t, app, http.MethodPost, "/cart/items/00000000-0000-0000-0000-000000000001",
		bearerFor(t, user), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
