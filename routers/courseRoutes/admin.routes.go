package courseRoutes

import (
	assignmentControllers "lms/controllers/assignment"
	controllers "lms/controllers/course"
	"lms/middleware"
	assignmentValidators "lms/validators/assignment"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminGetCourseDetails)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.PublishCourse(), controllers.AdminPublishCourse)

	// Module Management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminGetModules)
	adminGroup.Put("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.ModuleID(), controllers.AdminDeleteModule)

	// Lesson Management
	adminGroup.Post("/:course_id/module/:module_id/lesson", middleware.JWTMiddleware, validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:course_id/module/:module_id/lessons", middleware.JWTMiddleware, validators.ModuleID(), controllers.AdminGetLessons)
	adminGroup.Put("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), controllers.AdminDeleteLesson)

	// Assignment Management
	adminGroup.Post("/:id/assignment", middleware.JWTMiddleware, assignmentValidators.CreateAssignment(), assignmentControllers.AdminCreateAssignment)
	adminGroup.Put("/:course_id/assignment/:assignment_id", middleware.JWTMiddleware, assignmentValidators.UpdateAssignment(), assignmentControllers.AdminUpdateAssignment)
	adminGroup.Delete("/:course_id/assignment/:assignment_id", middleware.JWTMiddleware, assignmentValidators.AssignmentID(), assignmentControllers.AdminDeleteAssignment)
	adminGroup.Get("/:course_id/assignment/:assignment_id/submissions", middleware.JWTMiddleware, assignmentValidators.AssignmentID(), assignmentControllers.AdminGetSubmissions)

	submissionGroup := app.Group("/admin/submission")
	submissionGroup.Post("/:submission_id/grade", middleware.JWTMiddleware, assignmentValidators.GradeSubmission(), assignmentControllers.AdminGradeSubmission)
}
