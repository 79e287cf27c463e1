package courseRoutes

import (
	assignmentControllers "lms/controllers/assignment"
	controllers "lms/controllers/course"
	"lms/middleware"
	assignmentValidators "lms/validators/assignment"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetPublishedCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment (free courses only, paid courses go through /order)
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Lesson completion and progress
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.LessonID(), controllers.MarkLessonComplete)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseProgress(), controllers.GetCourseProgress)

	// Assignments
	userGroup.Get("/:id/assignments", middleware.JWTMiddleware, assignmentValidators.CourseAssignments(), assignmentControllers.GetAssignments)
	userGroup.Post("/:course_id/assignment/:assignment_id/submit", middleware.JWTMiddleware, assignmentValidators.SubmitAssignment(), assignmentControllers.SubmitAssignment)

	// User enrollments, certificates and submissions
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userEnrollGroup.Get("/submissions", middleware.JWTMiddleware, assignmentControllers.GetMySubmissions)
}
