package main

import (
	"log"

	"lms/auth"
	"lms/config"
	"lms/database"
	"lms/routers/adminRoutes"
	"lms/routers/certificateRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/enrollmentRoutes"
	"lms/routers/paymentRoutes"
	"lms/routers/quizRoutes"
	"lms/routers/userRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	auth.InitProvider()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded course assets
	app.Static("/uploads", config.AppConfig.UploadDir)

	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	userRoutes.SetupUserRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	// Re-drives certificate issuance for completed enrollments whose first
	// issuance attempt failed
	utils.InitializeIssuanceScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
