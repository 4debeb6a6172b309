package middleware

import (
	"strings"

	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string
	Role   models.Role
}

func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Protected middleware
func Protected(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Missing authorization header")
		}

		// Handle both cases: with and without "Bearer " prefix
		token := authHeader
		if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			token = strings.TrimSpace(authHeader[7:])
		}

		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			return err
		}

		c.Locals(principalKey, &Principal{UserID: claims.Subject, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole rejects callers without the given role. It must run after
// Protected.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		if p == nil {
			return apperr.Unauthorized("Unauthorized")
		}
		if p.Role != role {
			return apperr.Forbidden("Insufficient access rights")
		}
		return c.Next()
	}
}

// PrincipalFrom returns the caller set by Protected, or nil.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}
