package batchController

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

// AdminCreateBatch creates a batch for a course
func AdminCreateBatch(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedBatch").(*struct {
		CourseID    uint       `json:"course_id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		MaxStudents int        `json:"max_students"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	batch := models.Batch{
		CourseID:    reqData.CourseID,
		Name:        reqData.Name,
		Description: reqData.Description,
		StartDate:   reqData.StartDate,
		EndDate:     reqData.EndDate,
		MaxStudents: reqData.MaxStudents,
		Status:      "UPCOMING",
	}

	if err := database.Database.Db.Create(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Batch created successfully!", batch)
}

// AdminUpdateBatch updates batch fields
func AdminUpdateBatch(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	batchID := c.Locals("batchID").(int)

	var batch models.Batch
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batchID, false).First(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	}

	reqData, ok := c.Locals("validatedBatchUpdate").(*struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		MaxStudents *int       `json:"max_students"`
		Status      string     `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Name != "" {
		batch.Name = reqData.Name
	}
	if reqData.Description != "" {
		batch.Description = reqData.Description
	}
	if reqData.StartDate != nil {
		batch.StartDate = reqData.StartDate
	}
	if reqData.EndDate != nil {
		batch.EndDate = reqData.EndDate
	}
	if reqData.MaxStudents != nil {
		batch.MaxStudents = *reqData.MaxStudents
	}
	if reqData.Status != "" {
		batch.Status = reqData.Status
	}

	if err := database.Database.Db.Save(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch updated successfully!", batch)
}

// AdminDeleteBatch soft deletes a batch
func AdminDeleteBatch(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	batchID := c.Locals("batchID").(int)

	var batch models.Batch
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batchID, false).First(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	}

	batch.IsDeleted = true
	if err := database.Database.Db.Save(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch deleted successfully!", nil)
}

// AdminGetBatches lists batches, optionally for one course
func AdminGetBatches(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	db := database.Database.Db.Model(&models.Batch{}).Where("is_deleted = ?", false)
	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}

	var batches []models.Batch
	if err := db.Order("created_at desc").Find(&batches).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch batches!", nil)
	}

	type BatchWithCount struct {
		models.Batch
		EnrolledCount int64 `json:"enrolled_count"`
	}

	result := make([]BatchWithCount, len(batches))
	for i, b := range batches {
		var count int64
		database.Database.Db.Model(&courseModels.Enrollment{}).Where("batch_id = ? AND is_deleted = ?", b.ID, false).Count(&count)
		result[i] = BatchWithCount{Batch: b, EnrolledCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batches fetched successfully!", result)
}

// AdminAssignBatch assigns an enrollment to a batch
func AdminAssignBatch(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	batchID := c.Locals("batchID").(int)

	reqData, ok := c.Locals("validatedBatchAssign").(*struct {
		UserID uint `json:"user_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var batch models.Batch
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", batchID, false).First(&batch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", reqData.UserID, batch.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User is not enrolled in the batch course!", nil)
	}

	if batch.MaxStudents > 0 {
		var count int64
		database.Database.Db.Model(&courseModels.Enrollment{}).Where("batch_id = ? AND is_deleted = ?", batch.ID, false).Count(&count)
		if count >= int64(batch.MaxStudents) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Batch is full!", nil)
		}
	}

	batchIDVal := batch.ID
	enrollment.BatchID = &batchIDVal
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign batch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch assigned successfully!", enrollment)
}
