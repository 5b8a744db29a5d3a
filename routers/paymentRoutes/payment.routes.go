package paymentRoutes

import (
	controllers "lms/controllers/payment"
	"lms/middleware"
	validators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up purchase and receipt routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.AuthMiddleware)

	paymentGroup.Post("/sandbox", validators.CreateSandboxPayment(), controllers.CreateSandboxPayment)
	paymentGroup.Post("/card/checkout", validators.CreateCardPayment(), controllers.CreateCardPayment)
	paymentGroup.Post("/card/verify", validators.VerifyCardPayment(), controllers.VerifyCardPayment)
	paymentGroup.Get("/list", controllers.GetUserPayments)
	paymentGroup.Get("/receipt/:transactionId", controllers.GetReceipt)
}
