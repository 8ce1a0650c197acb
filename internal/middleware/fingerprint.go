package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FingerprintCookie names the httpOnly cookie that keys anonymous carts.
const FingerprintCookie = "fingerprint"

// FingerprintTTL is the freshness window for anonymous carts; the cookie
// max-age and the temporary-cart lookup both use it.
const FingerprintTTL = 7 * 24 * time.Hour

// ResolveFingerprint returns the caller's fingerprint token, minting and
// setting a new one when the cookie is absent.
func ResolveFingerprint(c *fiber.Ctx) string {
	if token := c.Cookies(FingerprintCookie); token != "" {
		return token
	}

	token := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     FingerprintCookie,
		Value:    token,
		MaxAge:   int(FingerprintTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return token
}
