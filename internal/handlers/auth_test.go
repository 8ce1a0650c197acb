package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

func authTestApp(db *gorm.DB) *fiber.App {
	app := newTestApp()
	handler := NewAuthHandler(db, testConfig())

	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	return app
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	app := authTestApp(db)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "Jane.Doe@Example.com",
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane.doe@example.com", user["email"])
	assert.Equal(t, models.RoleCustomer, user["role"])
	assert.Equal(t, "Jane Doe", user["display_name"])

	// Login is case-insensitive on email.
	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "JANE.DOE@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	app := authTestApp(db)

	payload := fiber.Map{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"password":   "hunter22",
	}
	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	app := authTestApp(db)

	// Missing email.
	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"first_name": "Jane",
		"password":   "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Short password.
	resp = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"password":   "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	db := openTestDB(t)
	app := authTestApp(db)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "jane@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
