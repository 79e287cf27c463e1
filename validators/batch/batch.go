package batchValidator

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// CreateBatch validates batch creation request
func CreateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID    uint       `json:"course_id"`
			Name        string     `json:"name"`
			Description string     `json:"description"`
			StartDate   *time.Time `json:"start_date"`
			EndDate     *time.Time `json:"end_date"`
			MaxStudents int        `json:"max_students"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if reqData.Name == "" {
			errors["name"] = "Batch name is required!"
		} else if len(reqData.Name) < 3 {
			errors["name"] = "Batch name must be at least 3 characters long!"
		}

		if reqData.MaxStudents < 0 {
			errors["max_students"] = "Max students cannot be negative!"
		}

		if reqData.StartDate != nil && reqData.EndDate != nil && reqData.EndDate.Before(*reqData.StartDate) {
			errors["end_date"] = "End date must be after the start date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBatch", reqData)
		return c.Next()
	}
}

// UpdateBatch validates batch update request
func UpdateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchIDStr := strings.TrimSpace(c.Params("id"))
		if batchIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch ID is required!", nil)
		}

		batchID, err := strconv.Atoi(batchIDStr)
		if err != nil || batchID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		reqData := new(struct {
			Name        string     `json:"name"`
			Description string     `json:"description"`
			StartDate   *time.Time `json:"start_date"`
			EndDate     *time.Time `json:"end_date"`
			MaxStudents *int       `json:"max_students"`
			Status      string     `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))

		if reqData.Name != "" && len(reqData.Name) < 3 {
			errors["name"] = "Batch name must be at least 3 characters long!"
		}

		if reqData.MaxStudents != nil && *reqData.MaxStudents < 0 {
			errors["max_students"] = "Max students cannot be negative!"
		}

		if reqData.Status != "" {
			validStatuses := map[string]bool{"UPCOMING": true, "ONGOING": true, "COMPLETED": true}
			if !validStatuses[reqData.Status] {
				errors["status"] = "Status must be UPCOMING, ONGOING, or COMPLETED!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("batchID", batchID)
		c.Locals("validatedBatchUpdate", reqData)
		return c.Next()
	}
}

// BatchID validates requests carrying a batch ID param
func BatchID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchIDStr := strings.TrimSpace(c.Params("id"))
		if batchIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch ID is required!", nil)
		}

		batchID, err := strconv.Atoi(batchIDStr)
		if err != nil || batchID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		c.Locals("batchID", batchID)
		return c.Next()
	}
}

// AssignBatch validates batch assignment request
func AssignBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchIDStr := strings.TrimSpace(c.Params("id"))
		if batchIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch ID is required!", nil)
		}

		batchID, err := strconv.Atoi(batchIDStr)
		if err != nil || batchID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		reqData := new(struct {
			UserID uint `json:"user_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("batchID", batchID)
		c.Locals("validatedBatchAssign", reqData)
		return c.Next()
	}
}
