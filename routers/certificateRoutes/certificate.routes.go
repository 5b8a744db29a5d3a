package certificateRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate issuance and verification routes
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	// Public verification by certificate number, no auth
	certGroup.Get("/verify/:certificateId", controllers.VerifyCertificate)

	certGroup.Post("/generate", middleware.AuthMiddleware, controllers.GenerateCertificate)
	certGroup.Get("/list", middleware.AuthMiddleware, controllers.GetUserCertificates)
	certGroup.Get("/:id", middleware.AuthMiddleware, controllers.GetCertificate)
	certGroup.Get("/:id/download", middleware.AuthMiddleware, controllers.DownloadCertificate)
}
