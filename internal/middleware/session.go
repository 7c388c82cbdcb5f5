package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/auth"
)

// SessionAuth resolves the Authorization header through the session store and
// stores the user id in locals. The header carries the opaque session token
// with no scheme prefix.
func SessionAuth(sessions *auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing session token")
		}
		userID, err := sessions.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				return fiber.NewError(http.StatusUnauthorized, "invalid session token")
			}
			return err
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// OptionalSession resolves the session when a token is present but lets
// anonymous requests through. Used by report endpoints that accept an explicit
// user_login instead of a session.
func OptionalSession(sessions *auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token != "" {
			if userID, err := sessions.Resolve(c.UserContext(), token); err == nil {
				c.Locals("user_id", userID)
			}
		}
		return c.Next()
	}
}
