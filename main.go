package main

import (
	"log"
	"otms/config"
	"otms/database"
	analyticsRoutes "otms/routers/analyticsRoutes"
	attendanceRoutes "otms/routers/attendanceRoutes"
	authRoutes "otms/routers/authRoutes"
	certificateRoutes "otms/routers/certificateRoutes"
	courseRoutes "otms/routers/courseRoutes"
	enrollmentRoutes "otms/routers/enrollmentRoutes"
	feedbackRoutes "otms/routers/feedbackRoutes"
	orgRoutes "otms/routers/orgRoutes"
	requestRoutes "otms/routers/requestRoutes"
	resourceRoutes "otms/routers/resourceRoutes"
	scheduleRoutes "otms/routers/scheduleRoutes"
	userRoutes "otms/routers/userRoutes"
	"otms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	orgRoutes.SetupOrganizationRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	scheduleRoutes.SetupScheduleRoutes(app)
	attendanceRoutes.SetupAttendanceRoutes(app)
	feedbackRoutes.SetupFeedbackRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	requestRoutes.SetupRequestRoutes(app)
	resourceRoutes.SetupResourceRoutes(app)
	analyticsRoutes.SetupAnalyticsRoutes(app)

	utils.InitializeEnrollmentScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
