package courseController

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
)

// AdminCreateLesson adds a lesson to a module
func AdminCreateLesson(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ContentType string `json:"content_type"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		ImageURL    string `json:"image_url"`
		Duration    int    `json:"duration"`
		OrderIndex  *int   `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var maxIndex int
		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_index), -1) + 1").Scan(&maxIndex)
		orderIndex = maxIndex
	}

	lesson := courseModels.Lesson{
		CourseID:    uint(courseID),
		ModuleID:    uint(moduleID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		ImageURL:    reqData.ImageURL,
		Duration:    reqData.Duration,
		OrderIndex:  orderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates a lesson
func AdminUpdateLesson(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ContentType string `json:"content_type"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		ImageURL    string `json:"image_url"`
		Duration    *int   `json:"duration"`
		OrderIndex  *int   `json:"order_index"`
		IsPublished *bool  `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Description != "" {
		lesson.Description = reqData.Description
	}
	if reqData.ContentType != "" {
		lesson.ContentType = reqData.ContentType
	}
	if reqData.TextContent != "" {
		lesson.TextContent = reqData.TextContent
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.ImageURL != "" {
		lesson.ImageURL = reqData.ImageURL
	}
	if reqData.Duration != nil {
		lesson.Duration = *reqData.Duration
	}
	if reqData.OrderIndex != nil {
		lesson.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// AdminDeleteLesson soft deletes a lesson
func AdminDeleteLesson(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.IsDeleted = true
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// AdminGetLessons lists all lessons of a module
func AdminGetLessons(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("course_id = ? AND module_id = ? AND is_deleted = ?", courseID, moduleID, false).Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}
