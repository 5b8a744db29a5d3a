package quizValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// QuestionRequest is one question in a create/update payload
type QuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"omitempty,oneof=multiple-choice true-false short-answer"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points" validate:"omitempty,gte=1"`
}

// CreateQuizRequest is the quiz creation payload
type CreateQuizRequest struct {
	CourseID     uint              `json:"course_id" validate:"required"`
	ChapterID    *uint             `json:"chapter_id"`
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description"`
	Questions    []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
	PassingScore int               `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimit    int               `json:"time_limit" validate:"omitempty,gte=0"`
	IsTimed      bool              `json:"is_timed"`
}

// UpdateQuizRequest is the quiz update payload; nil fields are untouched
type UpdateQuizRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Questions    []QuestionRequest `json:"questions" validate:"omitempty,min=1,dive"`
	PassingScore *int              `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimit    *int              `json:"time_limit" validate:"omitempty,gte=0"`
	IsTimed      *bool             `json:"is_timed"`
}

// SubmitQuizRequest is the quiz submission payload. TimeTaken is
// client-reported and trusted as such.
type SubmitQuizRequest struct {
	Answers   []string `json:"answers"`
	TimeTaken int      `json:"time_taken"`
}

// QuizIDParam validates the :id route parameter
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		quizID, err := strconv.Atoi(idStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// CreateQuiz validates the quiz creation payload
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)

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

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates the quiz update payload
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuizRequest)

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

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates the quiz submission payload
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "Answers are required!"})
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
