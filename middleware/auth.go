package middleware

import (
	"lms/auth"
	"lms/database"
	"lms/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token with the identity provider and
// resolves it to an internal user record, auto-provisioning a STUDENT on
// first sight of an unknown subject.
func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Missing or invalid Authorization header",
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid Authorization header format",
		})
	}

	tokenString := authHeader[len("Bearer "):]

	identity, err := auth.Provider.Verify(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid or expired token",
		})
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("external_id = ? AND is_deleted = ?", identity.ExternalID, false).First(&user).Error; err != nil {
		user = models.User{
			ExternalID:   identity.ExternalID,
			Email:        identity.Email,
			Name:         identity.Name,
			ProfileImage: identity.ProfileImage,
			Role:         "STUDENT",
			LastSeen:     time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Failed to provision user",
			})
		}
	}

	// Identity is resolved once per request and threaded through Locals
	c.Locals("userId", user.ID)
	c.Locals("user", user)

	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
