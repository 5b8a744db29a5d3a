package enrollmentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateEnrollment validates the enrollment creation payload
func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID  uint `json:"course_id"`
			PaymentID uint `json:"payment_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if reqData.PaymentID == 0 {
			errors["payment_id"] = "Payment ID is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// EnrollmentIDParam validates the :id route parameter
func EnrollmentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		enrollmentID, err := strconv.Atoi(idStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

// UpdateProgress validates the lecture progress payload
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ChapterID uint  `json:"chapter_id"`
			LectureID uint  `json:"lecture_id"`
			Completed *bool `json:"completed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.ChapterID == 0 {
			errors["chapter_id"] = "Chapter ID is required!"
		}
		if reqData.LectureID == 0 {
			errors["lecture_id"] = "Lecture ID is required!"
		}
		if reqData.Completed == nil {
			errors["completed"] = "Completed flag is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// CourseIDParam validates the :courseId route parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("courseId"))
		courseID, err := strconv.Atoi(idStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
