package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CourseIDParam validates the :id route parameter and stores it in Locals
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CreateCourse validates the course creation payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string  `json:"title" validate:"required"`
			Description   string  `json:"description" validate:"required"`
			Category      string  `json:"category" validate:"required"`
			Level         string  `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
			Price         float64 `json:"price" validate:"gte=0"`
			Thumbnail     string  `json:"thumbnail"`
			InstructorBio string  `json:"instructor_bio"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Failed validation: " + fieldErr.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the course update payload (all fields optional)
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			Category    *string  `json:"category"`
			Level       *string  `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
			Price       *float64 `json:"price" validate:"omitempty,gte=0"`
			Thumbnail   *string  `json:"thumbnail"`
			IsPublished *bool    `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Failed validation: " + fieldErr.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// AddChapter validates the chapter creation payload
func AddChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChapterOrder int    `json:"chapter_order"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "Chapter title is required!"})
		}

		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

// AddLecture validates the lecture creation payload and both route params
func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		chapterID, err := strconv.Atoi(strings.TrimSpace(c.Params("chapterId")))
		if err != nil || chapterID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Chapter ID!", nil)
		}

		reqData := new(struct {
			Title        string `json:"title"`
			LectureType  string `json:"lecture_type"`
			Content      string `json:"content"`
			Duration     int    `json:"duration"`
			LectureOrder int    `json:"lecture_order"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Lecture title is required!"
		}
		switch reqData.LectureType {
		case "video", "text", "document":
		default:
			errors["lecture_type"] = "Lecture type must be video, text or document!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Lecture content is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("chapterID", chapterID)
		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

// AddRating validates the rating payload
func AddRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Rating int    `json:"rating"`
			Review string `json:"review"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Rating < 1 || reqData.Rating > 5 {
			return middleware.ValidationErrorResponse(c, map[string]string{"rating": "Rating must be between 1 and 5!"})
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}

// CourseList validates optional pagination query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page != nil && reqData.Limit != nil && *reqData.Page >= 1 && *reqData.Limit >= 1 {
			c.Locals("validatedList", reqData)
		}
		return c.Next()
	}
}
