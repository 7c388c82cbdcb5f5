package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const statusManagerHeader = "X-Status-Manager-Token"

// StatusManagerAuth gates the status-transition endpoint behind the shared
// token of the external status management system.
func StatusManagerAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(statusManagerHeader)
		if provided == "" || token == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing status manager token")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return fiber.NewError(http.StatusUnauthorized, "invalid status manager token")
		}
		return c.Next()
	}
}
