package courseValidator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

func parseIDParam(c *fiber.Ctx, name string, label string) (int, bool) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		return 0, false
	}

	return id, true
}

// ============ Course Validators ============

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			Author       string  `json:"author"`
			Price        float64 `json:"price"`
			Discount     float64 `json:"discount"`
			Duration     int64   `json:"duration"`
			ThumbnailURL string  `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Author = strings.TrimSpace(reqData.Author)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Author == "" {
			errors["author"] = "Author is required!"
		} else if len(reqData.Author) < 3 {
			errors["author"] = "Author must be at least 3 characters long!"
		} else if matched, _ := regexp.MatchString(`[<>{}]`, reqData.Author); matched {
			errors["author"] = "Author name contains invalid characters!"
		}

		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if reqData.Discount < 0 || reqData.Discount > reqData.Price {
			errors["discount"] = "Discount must be between 0 and the price!"
		}

		if reqData.Duration <= 0 {
			errors["duration"] = "Duration must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Author       string   `json:"author"`
			Price        *float64 `json:"price"`
			Discount     *float64 `json:"discount"`
			Duration     int64    `json:"duration"`
			ThumbnailURL string   `json:"thumbnail_url"`
			Status       string   `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Author = strings.TrimSpace(reqData.Author)
		reqData.Status = strings.TrimSpace(reqData.Status)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description != "" && len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Author != "" {
			if len(reqData.Author) < 3 {
				errors["author"] = "Author must be at least 3 characters long!"
			} else if matched, _ := regexp.MatchString(`[<>{}]`, reqData.Author); matched {
				errors["author"] = "Author name contains invalid characters!"
			}
		}

		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if reqData.Discount != nil && *reqData.Discount < 0 {
			errors["discount"] = "Discount cannot be negative!"
		}

		if reqData.Status != "" {
			validStatuses := map[string]bool{"DRAFT": true, "ACTIVE": true, "INACTIVE": true}
			if !validStatuses[reqData.Status] {
				errors["status"] = "Status must be DRAFT, ACTIVE, or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates requests that only carry a course ID param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// PublishCourse validates course publish/unpublish request
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			IsPublished bool `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("publishStatus", reqData.IsPublished)
		return c.Next()
	}
}

// CourseList validates the public course listing request
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int   `query:"page"`
			Limit *int   `query:"limit"`
			Query string `query:"query"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// AdminList validates admin list request with pagination
func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// CourseProgress validates the progress request params
func CourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ============ Module Validators ============

// CreateModule validates module creation request
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OrderIndex  *int   `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Module title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Module title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// UpdateModule validates module update request
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		moduleID, ok := parseIDParam(c, "module_id", "Module ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OrderIndex  *int   `json:"order_index"`
			IsPublished *bool  `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Module title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

// ModuleID validates requests carrying course and module ID params
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		moduleID, ok := parseIDParam(c, "module_id", "Module ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// ============ Lesson Validators ============

var validLessonTypes = map[string]bool{"TEXT": true, "VIDEO": true, "IMAGE": true}

// CreateLesson validates lesson creation request
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		moduleID, ok := parseIDParam(c, "module_id", "Module ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			ImageURL    string `json:"image_url"`
			Duration    int    `json:"duration"`
			OrderIndex  *int   `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if reqData.Title == "" {
			errors["title"] = "Lesson title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Lesson title must be at least 3 characters long!"
		}

		if reqData.ContentType == "" {
			errors["content_type"] = "Content type is required!"
		} else if !validLessonTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be TEXT, VIDEO, or IMAGE!"
		}

		// Validate based on content type
		switch reqData.ContentType {
		case "TEXT":
			if strings.TrimSpace(reqData.TextContent) == "" {
				errors["text_content"] = "Text content is required for TEXT type!"
			}
		case "VIDEO":
			if strings.TrimSpace(reqData.VideoURL) == "" {
				errors["video_url"] = "Video URL is required for VIDEO type!"
			}
		case "IMAGE":
			if strings.TrimSpace(reqData.ImageURL) == "" {
				errors["image_url"] = "Image URL is required for IMAGE type!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates lesson update request
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		lessonID, ok := parseIDParam(c, "lesson_id", "Lesson ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Lesson title must be at least 3 characters long!"
		}

		if reqData.ContentType != "" && !validLessonTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be TEXT, VIDEO, or IMAGE!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// LessonID validates requests carrying course and lesson ID params
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		lessonID, ok := parseIDParam(c, "lesson_id", "Lesson ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
