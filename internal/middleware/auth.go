package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/utils"
)

const identityContextKey = "callerIdentity"

// Identity is the caller identity produced once at the authentication
// boundary and passed explicitly into every component call. Anonymous
// callers carry only a fingerprint token.
type Identity struct {
	UserID      uuid.UUID
	Role        string
	Name        string
	Fingerprint string
}

// Anonymous reports whether the caller has no authenticated account.
func (id Identity) Anonymous() bool {
	return id.UserID == uuid.Nil
}

// AuthMiddleware validates JWT bearer tokens and loads the caller identity
// into context. Requests without a valid token are rejected.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := bearerClaims(c, cfg)
		if err != nil {
			return err
		}

		c.Locals(identityContextKey, Identity{UserID: claims.UserID, Role: claims.Role, Name: claims.Name})
		return c.Next()
	}
}

// OptionalAuthMiddleware loads the caller identity when a bearer token is
// present but lets anonymous requests through. Used by the cart routes,
// which also serve cookie-identified browsers.
func OptionalAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}

		claims, err := bearerClaims(c, cfg)
		if err != nil {
			return err
		}

		c.Locals(identityContextKey, Identity{UserID: claims.UserID, Role: claims.Role, Name: claims.Name})
		return c.Next()
	}
}

// RequireRoles gates a route to the listed roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// GetIdentity extracts the caller identity from context.
func GetIdentity(c *fiber.Ctx) (Identity, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return Identity{}, false
	}

	if identity, ok := value.(Identity); ok {
		return identity, true
	}

	return Identity{}, false
}

func bearerClaims(c *fiber.Ctx, cfg *config.Config) (utils.TokenClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.TokenClaims{}, fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return utils.TokenClaims{}, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
	if err != nil {
		return utils.TokenClaims{}, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	return claims, nil
}
