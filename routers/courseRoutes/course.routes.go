package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course catalog and authoring routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (public, published courses only)
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/search", controllers.SearchCourses)
	courseGroup.Get("/:id", validators.CourseIDParam(), controllers.GetCourseDetails)

	// Ratings (enrolled students)
	courseGroup.Post("/:id/rating", middleware.AuthMiddleware, validators.CourseIDParam(), validators.AddRating(), controllers.AddCourseRating)

	// Authoring (educators)
	educatorGroup := app.Group("/educator/course", middleware.AuthMiddleware, middleware.RequireRole("EDUCATOR"))
	educatorGroup.Get("/list", controllers.GetInstructorCourses)
	educatorGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	educatorGroup.Patch("/:id", validators.CourseIDParam(), validators.UpdateCourse(), controllers.UpdateCourse)
	educatorGroup.Delete("/:id", validators.CourseIDParam(), controllers.DeleteCourse)
	educatorGroup.Post("/:id/chapter", validators.CourseIDParam(), validators.AddChapter(), controllers.AddChapter)
	educatorGroup.Post("/:id/chapter/:chapterId/lecture", validators.AddLecture(), controllers.AddLecture)
	educatorGroup.Post("/:id/thumbnail", validators.CourseIDParam(), controllers.UploadThumbnail)
}
