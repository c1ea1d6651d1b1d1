package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as asserted by the identity
// provider: opaque UID plus email and role claims.
type Principal struct {
	UID       string
	Email     string
	Role      string
	Anonymous bool
}

// Actor converts the principal into the engine's actor form.
func (p *Principal) Actor() Actor {
	return Actor{UID: p.UID, Email: p.Email, Role: p.Role, Anonymous: p.Anonymous}
}

// Actor identifies who invokes an engine operation.
type Actor struct {
	UID       string
	Email     string
	Role      string
	Anonymous bool
}

// Authenticated reports whether the actor is a signed-in, non-anonymous
// identity with a known email.
func (a Actor) Authenticated() bool {
	return a.UID != "" && !a.Anonymous && a.Email != ""
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{
		UID:       claims.UID,
		Email:     claims.Email,
		Role:      claims.Role,
		Anonymous: claims.Anonymous,
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
