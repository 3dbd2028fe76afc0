// Package auth implements the optional shared-secret check protecting the
// API. The check is a placeholder-grade guard: it is enforced only when a
// token is configured, and never gates CORS preflight requests.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the shared secret.
const HeaderName = "X-Worker-Token"

// Config holds the middleware configuration.
type Config struct {
	// Token is the expected shared secret. Empty disables the check.
	Token string
}

// New returns a middleware enforcing the shared-secret header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Token == "" || c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		supplied := c.Get(HeaderName)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.Token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing worker token",
			})
		}
		return c.Next()
	}
}
