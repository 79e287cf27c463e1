package courseController

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

// MarkLessonComplete records a lesson completion and updates progress
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check lesson exists and is published
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Already completed is not an error, completions are idempotent
	var existing courseModels.LessonCompletion
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", existing)
	}

	completion := courseModels.LessonCompletion{
		UserID:   userID,
		CourseID: uint(courseID),
		LessonID: uint(lessonID),
	}

	if err := database.Database.Db.Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	updateEnrollmentProgress(&user, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", completion)
}

// GetCourseProgress returns the user's module-wise progress in a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Get completed lesson IDs
	var completions []courseModels.LessonCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completions)

	completedIDs := make([]uint, len(completions))
	for i, cc := range completions {
		completedIDs[i] = cc.LessonID
	}

	// Get module-wise progress
	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleProgress struct {
		ModuleID         uint    `json:"module_id"`
		ModuleName       string  `json:"module_name"`
		TotalLessons     int64   `json:"total_lessons"`
		CompletedLessons int64   `json:"completed_lessons"`
		Progress         float64 `json:"progress"`
	}

	moduleProgress := make([]ModuleProgress, len(modules))
	for i, mod := range modules {
		var totalLessons int64
		var completedLessons int64

		database.Database.Db.Model(&courseModels.Lesson{}).Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Count(&totalLessons)
		database.Database.Db.Model(&courseModels.LessonCompletion{}).
			Joins("JOIN lessons ON lesson_completions.lesson_id = lessons.id").
			Where("lesson_completions.user_id = ? AND lessons.module_id = ? AND lesson_completions.is_deleted = ?", userID, mod.ID, false).
			Count(&completedLessons)

		progress := float64(0)
		if totalLessons > 0 {
			progress = float64(completedLessons) / float64(totalLessons) * 100
		}

		moduleProgress[i] = ModuleProgress{
			ModuleID:         mod.ID,
			ModuleName:       mod.Title,
			TotalLessons:     totalLessons,
			CompletedLessons: completedLessons,
			Progress:         progress,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"completed_ids":   completedIDs,
		"module_progress": moduleProgress,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// updateEnrollmentProgress recomputes the enrollment progress after a lesson
// completion and issues the certificate when the course is finished
func updateEnrollmentProgress(user *models.User, courseID uint) {
	var totalLessons int64
	var completedLessons int64

	database.Database.Db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)
	database.Database.Db.Model(&courseModels.LessonCompletion{}).Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).Count(&completedLessons)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.CompletedLessons = int(completedLessons)
	enrollment.TotalLessons = int(totalLessons)

	if totalLessons > 0 {
		enrollment.Progress = float64(completedLessons) / float64(totalLessons) * 100
	}

	if enrollment.Progress >= 100 {
		enrollment.Status = "COMPLETED"
		now := time.Now()
		enrollment.CompletedAt = &now
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	database.Database.Db.Save(&enrollment)

	if enrollment.Status == "COMPLETED" {
		issueCertificate(user, &enrollment)
	}
}

// issueCertificate creates the certificate once per user and course
func issueCertificate(user *models.User, enrollment *courseModels.Enrollment) {
	var existing courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, enrollment.CourseID, false).First(&existing).Error; err == nil {
		return
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
		return
	}

	cert := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          enrollment.CourseID,
		CertificateNumber: fmt.Sprintf("CERT-%d-%s", enrollment.CourseID, uuid.NewString()[:8]),
		IssuedAt:          time.Now(),
	}

	if err := database.Database.Db.Create(&cert).Error; err != nil {
		log.Printf("Failed to issue certificate for user %d course %d: %v", user.ID, enrollment.CourseID, err)
		return
	}

	go utils.SendCertificateEmail(user.Email, user.Name, course.Title, cert.CertificateNumber)
	go utils.NotifyEvent("course.completed", map[string]interface{}{
		"user_id":            user.ID,
		"course_id":          enrollment.CourseID,
		"certificate_number": cert.CertificateNumber,
	})
}
