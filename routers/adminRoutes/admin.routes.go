package adminRoutes

import (
	controllers "lms/controllers/admin"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin dashboard routes. RequireRole with no
// arguments admits admins only.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.AuthMiddleware, middleware.RequireRole())

	adminGroup.Get("/users", controllers.GetAllUsers)
	adminGroup.Get("/enrollments", controllers.GetAllEnrollments)
	adminGroup.Get("/payments", controllers.GetAllPayments)
	adminGroup.Get("/statistics", controllers.GetStatistics)
	adminGroup.Delete("/user/:id", controllers.DeleteUser)
	adminGroup.Patch("/user/:id/role", controllers.UpdateUserRole)
}
