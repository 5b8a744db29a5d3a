package userRoutes

import (
	controllers "lms/controllers/user"
	"lms/middleware"
	validators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up the profile and enrollment listing routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.AuthMiddleware)

	userGroup.Get("/me", controllers.GetUserData)
	userGroup.Get("/enrollments", controllers.GetEnrolledCourses)
	userGroup.Patch("/profile", validators.UpdateProfile(), controllers.UpdateProfile)
}
