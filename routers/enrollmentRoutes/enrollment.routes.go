package enrollmentRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment and progress tracking routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/enrollment", middleware.AuthMiddleware)

	enrollGroup.Post("/create", validators.CreateEnrollment(), controllers.CreateEnrollment)
	enrollGroup.Get("/:id", validators.EnrollmentIDParam(), controllers.GetEnrollment)
	enrollGroup.Put("/:id/progress", validators.EnrollmentIDParam(), validators.UpdateProgress(), controllers.UpdateProgress)
	enrollGroup.Get("/course/:courseId/progress", validators.CourseIDParam(), controllers.GetCourseProgress)
}
