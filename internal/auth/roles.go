package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireSignedIn ensures the caller is a non-anonymous identity. Anonymous
// sessions may browse nothing that mutates state.
func RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Anonymous || principal.Email == "" {
			return fiber.NewError(http.StatusUnauthorized, "sign in required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal carries one of the allowed role claims.
// Role checks here are advisory routing guards; privileged operations verify
// the claim again server-side in the service layer.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
