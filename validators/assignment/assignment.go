package assignmentValidator

import (
	"strconv"
	"strings"
	"time"

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

// CreateAssignment validates assignment creation request
func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			ModuleID    uint       `json:"module_id"`
			Title       string     `json:"title"`
			Description string     `json:"description"`
			TotalMarks  *float64   `json:"total_marks"`
			DueDate     *time.Time `json:"due_date"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.ModuleID == 0 {
			errors["module_id"] = "Module ID is required!"
		}

		if reqData.Title == "" {
			errors["title"] = "Assignment title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Assignment title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Assignment description is required!"
		}

		if reqData.TotalMarks != nil && *reqData.TotalMarks <= 0 {
			errors["total_marks"] = "Total marks must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// UpdateAssignment validates assignment update request
func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		assignmentID, ok := parseIDParam(c, "assignment_id", "Assignment ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			TotalMarks  *float64   `json:"total_marks"`
			DueDate     *time.Time `json:"due_date"`
			IsPublished *bool      `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Assignment title must be at least 3 characters long!"
		}

		if reqData.TotalMarks != nil && *reqData.TotalMarks <= 0 {
			errors["total_marks"] = "Total marks must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("assignmentID", assignmentID)
		c.Locals("validatedAssignmentUpdate", reqData)
		return c.Next()
	}
}

// AssignmentID validates requests carrying course and assignment ID params
func AssignmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		assignmentID, ok := parseIDParam(c, "assignment_id", "Assignment ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		c.Locals("assignmentID", assignmentID)
		return c.Next()
	}
}

// SubmitAssignment validates a student submission
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id", "Course ID")
		if !ok {
			return nil
		}
		assignmentID, ok := parseIDParam(c, "assignment_id", "Assignment ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Answer string `json:"answer"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Answer) == "" {
			errors["answer"] = "Answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("assignmentID", assignmentID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeSubmission validates admin grading request
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		submissionID, ok := parseIDParam(c, "submission_id", "Submission ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Grade    float64 `json:"grade"`
			Feedback string  `json:"feedback"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Grade < 0 {
			errors["grade"] = "Grade cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("submissionID", submissionID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}

// CourseAssignments validates the student assignment listing request
func CourseAssignments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
