package main

import (
	"log"

	"lms/config"
	"lms/database"
	quizModels "lms/models/quiz"
	authRoutes "lms/routers/authRoutes"
	batchRoutes "lms/routers/batchRoutes"
	courseRoutes "lms/routers/courseRoutes"
	orderRoutes "lms/routers/orderRoutes"
	quizRoutes "lms/routers/quizRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()

	quizModels.SetLocation(config.AppConfig.TimeZone)
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	quizRoutes.SetupAdminQuizRoutes(app)
	orderRoutes.SetupOrderRoutes(app)
	batchRoutes.SetupBatchRoutes(app)

	utils.InitializeReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
