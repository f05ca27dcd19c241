package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/types"
)

// AuthUser validates the bearer token and resolves the journal user for
// the request
func AuthUser(auth *services.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, auth, "journal.authorization.user")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, auth *services.Authenticator, errorType string) error {
	token := bearerToken(c)
	if token == "" {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Authorization bearer token not found",
			Type:    errorType,
		}
	}

	user, claims, err := auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: fmt.Sprintf("Invalid token: %v", err),
			Type:    errorType,
		}
	}

	// Set user data in context
	c.Locals("user", user)
	c.Locals("claims", claims)

	return c.Next()
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
