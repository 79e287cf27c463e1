package quizRoutes

import (
	controllers "lms/controllers/quiz"
	"lms/middleware"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up student-facing quiz routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/course/:course_id/quiz")

	quizGroup.Get("/:quiz_id", middleware.JWTMiddleware, validators.TakeQuiz(), controllers.GetQuizForAttempt)
	quizGroup.Post("/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)
	quizGroup.Get("/:quiz_id/results", middleware.JWTMiddleware, validators.TakeQuiz(), controllers.GetQuizResults)

	userGroup := app.Group("/user")
	userGroup.Get("/quizzes", middleware.JWTMiddleware, validators.MyQuizzes(), controllers.GetMyQuizzes)
}

// SetupAdminQuizRoutes sets up admin quiz management routes
func SetupAdminQuizRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/quiz")

	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.AdminCreateQuiz)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminListQuizzes)
	adminGroup.Get("/:quiz_id", middleware.JWTMiddleware, validators.QuizID(), controllers.AdminGetQuiz)
	adminGroup.Put("/:quiz_id", middleware.JWTMiddleware, validators.UpdateQuiz(), controllers.AdminUpdateQuiz)
	adminGroup.Delete("/:quiz_id", middleware.JWTMiddleware, validators.QuizID(), controllers.AdminDeleteQuiz)
	adminGroup.Post("/:quiz_id/publish", middleware.JWTMiddleware, validators.PublishQuiz(), controllers.AdminPublishQuiz)
	adminGroup.Get("/:quiz_id/stats", middleware.JWTMiddleware, validators.QuizID(), controllers.AdminGetQuizStats)

	// Question management
	adminGroup.Post("/:quiz_id/question", middleware.JWTMiddleware, validators.AddQuestion(), controllers.AdminAddQuestion)
	adminGroup.Put("/:quiz_id/question/:question_id", middleware.JWTMiddleware, validators.UpdateQuestion(), controllers.AdminUpdateQuestion)
	adminGroup.Delete("/:quiz_id/question/:question_id", middleware.JWTMiddleware, validators.QuestionID(), controllers.AdminDeleteQuestion)
}
