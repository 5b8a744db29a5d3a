package middleware

import (
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that checks the resolved user's role
// against the allowed set. ADMIN passes every check.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: user not resolved",
				"data":    nil,
			})
		}

		if user.Role == "ADMIN" {
			return c.Next()
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "You do not have permission to access this resource!",
			"data":    nil,
		})
	}
}
