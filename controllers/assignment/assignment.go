package assignmentController

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
)

func requireAdmin(c *fiber.Ctx) *models.User {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil
	}

	if user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return nil
	}

	return &user
}

// AdminCreateAssignment adds an assignment to a module
func AdminCreateAssignment(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*struct {
		ModuleID    uint       `json:"module_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		TotalMarks  *float64   `json:"total_marks"`
		DueDate     *time.Time `json:"due_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", reqData.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	assignment := courseModels.Assignment{
		CourseID:    uint(courseID),
		ModuleID:    reqData.ModuleID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueDate:     reqData.DueDate,
	}
	if reqData.TotalMarks != nil && *reqData.TotalMarks > 0 {
		assignment.TotalMarks = *reqData.TotalMarks
	} else {
		assignment.TotalMarks = 100
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// AdminUpdateAssignment updates assignment fields
func AdminUpdateAssignment(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", assignmentID, courseID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	reqData, ok := c.Locals("validatedAssignmentUpdate").(*struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		TotalMarks  *float64   `json:"total_marks"`
		DueDate     *time.Time `json:"due_date"`
		IsPublished *bool      `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		assignment.Title = reqData.Title
	}
	if reqData.Description != "" {
		assignment.Description = reqData.Description
	}
	if reqData.TotalMarks != nil && *reqData.TotalMarks > 0 {
		assignment.TotalMarks = *reqData.TotalMarks
	}
	if reqData.DueDate != nil {
		assignment.DueDate = reqData.DueDate
	}
	if reqData.IsPublished != nil {
		assignment.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}

// AdminDeleteAssignment soft deletes an assignment
func AdminDeleteAssignment(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", assignmentID, courseID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	assignment.IsDeleted = true
	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment deleted successfully!", nil)
}

// AdminGetSubmissions lists submissions of an assignment
func AdminGetSubmissions(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", assignmentID, courseID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submissions []courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("assignment_id = ? AND is_deleted = ?", assignmentID, false).Order("submitted_at asc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"assignment":  assignment,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// AdminGradeSubmission records grade and feedback for a submission
func AdminGradeSubmission(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	submissionID := c.Locals("submissionID").(int)

	var submission courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*struct {
		Grade    float64 `json:"grade"`
		Feedback string  `json:"feedback"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ?", submission.AssignmentID).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if reqData.Grade < 0 || reqData.Grade > assignment.TotalMarks {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Grade must be between 0 and the total marks!", nil)
	}

	now := time.Now()
	submission.Grade = &reqData.Grade
	submission.Feedback = reqData.Feedback
	submission.Reviewed = true
	submission.ReviewedAt = &now

	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}

// GetAssignments lists published assignments of a course for an enrolled student
func GetAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Order("created_at asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	type AssignmentWithStatus struct {
		courseModels.Assignment
		Submitted bool     `json:"submitted"`
		Reviewed  bool     `json:"reviewed"`
		Grade     *float64 `json:"grade"`
	}

	result := make([]AssignmentWithStatus, len(assignments))
	for i, a := range assignments {
		entry := AssignmentWithStatus{Assignment: a}
		var submission courseModels.AssignmentSubmission
		if err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", a.ID, userID, false).First(&submission).Error; err == nil {
			entry.Submitted = true
			entry.Reviewed = submission.Reviewed
			entry.Grade = submission.Grade
		}
		result[i] = entry
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", result)
}

// SubmitAssignment stores a student's answer for review
func SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	assignmentID := c.Locals("assignmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", assignmentID, courseID, false, true).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if assignment.DueDate != nil && time.Now().After(*assignment.DueDate) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The due date for this assignment has passed!", nil)
	}

	var existing courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignmentID, userID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment already submitted!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answer string `json:"answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	submission := courseModels.AssignmentSubmission{
		AssignmentID: uint(assignmentID),
		UserID:       userID,
		CourseID:     uint(courseID),
		Answer:       reqData.Answer,
		SubmittedAt:  time.Now(),
	}

	if err := database.Database.Db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GetMySubmissions lists the student's submissions across courses
func GetMySubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var submissions []courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("submitted_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	type SubmissionWithAssignment struct {
		courseModels.AssignmentSubmission
		AssignmentTitle string  `json:"assignment_title"`
		TotalMarks      float64 `json:"total_marks"`
	}

	result := make([]SubmissionWithAssignment, len(submissions))
	for i, s := range submissions {
		var assignment courseModels.Assignment
		database.Database.Db.Where("id = ?", s.AssignmentID).First(&assignment)
		result[i] = SubmissionWithAssignment{
			AssignmentSubmission: s,
			AssignmentTitle:      assignment.Title,
			TotalMarks:           assignment.TotalMarks,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions": result,
		"total":       len(result),
	})
}
