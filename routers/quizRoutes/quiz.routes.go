package quizRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz taking and authoring routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz", middleware.AuthMiddleware)

	// Taking (enrolled students; answers are never exposed)
	quizGroup.Get("/course/:id", courseValidators.CourseIDParam(), controllers.GetCourseQuizzes)
	quizGroup.Get("/:id", validators.QuizIDParam(), controllers.GetQuiz)
	quizGroup.Post("/:id/submit", validators.QuizIDParam(), validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/:id/attempts", validators.QuizIDParam(), controllers.GetQuizAttempts)

	// Authoring (educators)
	educatorGroup := app.Group("/educator/quiz", middleware.AuthMiddleware, middleware.RequireRole("EDUCATOR"))
	educatorGroup.Post("/create", validators.CreateQuiz(), controllers.CreateQuiz)
	educatorGroup.Patch("/:id", validators.QuizIDParam(), validators.UpdateQuiz(), controllers.UpdateQuiz)
	educatorGroup.Delete("/:id", validators.QuizIDParam(), controllers.DeleteQuiz)
}
