package paymentValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateSandboxPayment validates the body of a sandbox purchase
func CreateSandboxPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"course_id" validate:"required"`
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

		c.Locals("validatedSandboxPayment", reqData)
		return c.Next()
	}
}

// CreateCardPayment validates the body of a card checkout request
func CreateCardPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"course_id" validate:"required"`
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

		c.Locals("validatedCardPayment", reqData)
		return c.Next()
	}
}

// VerifyCardPayment validates the session id used to confirm a card payment
func VerifyCardPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SessionID string `json:"session_id" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.SessionID = strings.TrimSpace(reqData.SessionID)
		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, err := range err.(validator.ValidationErrors) {
				errors[err.Field()] = "Validation failed on " + err.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyPayment", reqData)
		return c.Next()
	}
}
