package courseController

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

// GetPublishedCourses lists published courses for students
func GetPublishedCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*struct {
		Page  *int   `query:"page"`
		Limit *int   `query:"limit"`
		Query string `query:"query"`
	})

	page := 1
	limit := 10
	query := ""
	if ok {
		if reqData.Page != nil && *reqData.Page > 0 {
			page = *reqData.Page
		}
		if reqData.Limit != nil && *reqData.Limit > 0 {
			limit = *reqData.Limit
		}
		query = reqData.Query
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true)
	if query != "" {
		db = db.Where("title LIKE ?", "%"+query+"%")
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a published course with its published modules and lessons
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrolled bool
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err == nil {
		enrolled = true
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Order("order_index asc").Find(&modules)

	type ModuleWithLessons struct {
		courseModels.Module
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	result := make([]ModuleWithLessons, len(modules))
	for i, mod := range modules {
		var lessons []courseModels.Lesson
		db := database.Database.Db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Order("order_index asc")
		if !enrolled {
			// Lesson bodies are only visible to enrolled students
			db = db.Select("id", "created_at", "updated_at", "course_id", "module_id", "title", "description", "content_type", "duration", "order_index", "is_published")
		}
		db.Find(&lessons)
		result[i] = ModuleWithLessons{Module: mod, Lessons: lessons}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":   course,
		"modules":  result,
		"enrolled": enrolled,
	})
}

// EnrollInCourse enrolls the user in a free course directly
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// Paid courses go through the order flow
	if course.Price-course.Discount > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course requires purchase. Please place an order!", nil)
	}

	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	enrollment, err := CreateEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// CreateEnrollment creates the enrollment row and bumps the course counter.
// Shared by free enrollment and completed orders.
func CreateEnrollment(userID uint, courseID uint) (*courseModels.Enrollment, error) {
	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       "ENROLLED",
		TotalLessons: int(totalLessons),
		EnrolledAt:   time.Now(),
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
		Update("total_enrolled", gorm.Expr("total_enrolled + 1")).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	tx.Commit()

	return &enrollment, nil
}

// GetEnrollments lists the user's enrollments with course info
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseName        string `json:"course_name"`
		CourseDescription string `json:"course_description"`
		CourseAuthor      string `json:"course_author"`
		CourseDuration    int64  `json:"course_duration"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:        e,
			CourseName:        course.Title,
			CourseDescription: course.Description,
			CourseAuthor:      course.Author,
			CourseDuration:    course.Duration,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
