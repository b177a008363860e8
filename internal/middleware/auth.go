package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arman-d/DermaCareBack/internal/identity"
)

// AuthRequired is the slow path: every protected API call is resolved
// against the authoritative identity backend. The fast-path role cookie is
// never consulted here.
func AuthRequired(backend identity.Backend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		user, err := backend.CurrentUser(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("role", user.Role)

		return c.Next()
	}
}
