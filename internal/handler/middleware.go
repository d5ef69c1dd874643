package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/grattalab/scratch-win-system/internal/auth"
)

const claimsKey = "claims"

// TokenVerifier verifies bearer tokens into claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth returns a middleware that verifies the Authorization bearer
// token and stores the claims in the request locals.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireSuperadmin rejects principals without the superadmin role.
// Must run after RequireAuth.
func RequireSuperadmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFrom(c)
		if claims == nil || claims.Role != auth.RoleSuperadmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// RequireStoreAccess rejects principals not authorized for the store named
// by the storeID route parameter. Must run after RequireAuth.
func RequireStoreAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFrom(c)
		if claims == nil || !claims.AuthorizedFor(c.Params("storeID")) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}
