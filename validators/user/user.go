package userValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// UpdateProfile validates the editable profile fields
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
			ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, err := range err.(validator.ValidationErrors) {
				errors[err.Field()] = "Validation failed on " + err.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
