package quizValidator

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	quizModels "lms/models/quiz"
)

var validate = validator.New()

// OptionPayload is one option in a quiz create/update request
type OptionPayload struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionPayload is one question in a quiz create request
type QuestionPayload struct {
	Title         string          `json:"title"`
	Content       string          `json:"content" validate:"required"`
	Type          string          `json:"type" validate:"required"`
	Options       []OptionPayload `json:"options"`
	CorrectAnswer any             `json:"correct_answer"`
	Points        *float64        `json:"points" validate:"omitempty,gte=0"`
	Explanation   string          `json:"explanation"`
	OrderIndex    int             `json:"order_index"`
}

// QuizPayload is the admin quiz create request
type QuizPayload struct {
	CourseID uint  `json:"course_id" validate:"required"`
	ModuleID uint  `json:"module_id" validate:"required"`
	LessonID *uint `json:"lesson_id"`

	Title        string `json:"title" validate:"required,min=3"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`

	Type            string   `json:"type"`
	PassingScore    *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	GradingCriteria string   `json:"grading_criteria"`

	ShuffleQuestions   bool  `json:"shuffle_questions"`
	ShuffleOptions     bool  `json:"shuffle_options"`
	ShowCorrectAnswers *bool `json:"show_correct_answers"`
	AllowReview        *bool `json:"allow_review"`
	AutoGrade          *bool `json:"auto_grade"`

	DueDate        *time.Time `json:"due_date"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	TimeLimit      *int       `json:"time_limit" validate:"omitempty,gte=0"`
	MaxAttempts    *int       `json:"max_attempts" validate:"omitempty,gte=1"`

	Questions []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// validateQuestion applies the per-type question rules shared by create and
// add/update question
func validateQuestion(q *QuestionPayload, key string, errors map[string]string) {
	if !quizModels.ValidQuestionType(q.Type) {
		errors[key+".type"] = "Question type must be one of multiple-choice, true-false, short-answer, essay, matching!"
	}
	if strings.TrimSpace(q.Content) == "" {
		errors[key+".content"] = "Question content is required!"
	}
	if q.Points != nil && *q.Points < 0 {
		errors[key+".points"] = "Points must be >= 0!"
	}
	// Correct answer is required at creation for every type
	if q.CorrectAnswer == nil {
		errors[key+".correct_answer"] = "Correct answer is required!"
	}
	if quizModels.QuestionType(q.Type) == quizModels.QuestionMultipleChoice && len(q.Options) < 2 {
		errors[key+".options"] = "Multiple-choice questions need at least 2 options!"
	}
}

// CreateQuiz validates the admin quiz creation payload
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fe.Field())] = "Invalid value for " + fe.Field() + "!"
			}
		}

		if reqData.Type != "" && reqData.Type != quizModels.TypePractice &&
			reqData.Type != quizModels.TypeGraded && reqData.Type != quizModels.TypeAssessment {
			errors["type"] = "Quiz type must be one of practice, graded, assessment!"
		}

		for i := range reqData.Questions {
			validateQuestion(&reqData.Questions[i], "questions["+strconv.Itoa(i)+"]", errors)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates the quiz settings update payload
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}

		reqData := new(QuizPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Updates are partial, so the create rules apply only to fields the
		// caller actually sent
		errors := make(map[string]string)
		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Type != "" && reqData.Type != quizModels.TypePractice &&
			reqData.Type != quizModels.TypeGraded && reqData.Type != quizModels.TypeAssessment {
			errors["type"] = "Quiz type must be one of practice, graded, assessment!"
		}
		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}
		if reqData.MaxAttempts != nil && *reqData.MaxAttempts < 1 {
			errors["max_attempts"] = "Max attempts must be at least 1!"
		}
		if reqData.TimeLimit != nil && *reqData.TimeLimit < 0 {
			errors["time_limit"] = "Time limit must be >= 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// AddQuestion validates a single question payload for an existing quiz
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}

		reqData := new(QuestionPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		validateQuestion(reqData, "question", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// UpdateQuestion validates a question update payload
func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}
		questionID, err := strconv.Atoi(strings.TrimSpace(c.Params("question_id")))
		if err != nil || questionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}
		c.Locals("questionID", questionID)

		reqData := new(QuestionPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		validateQuestion(reqData, "question", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// QuestionID validates the quiz and question id params
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}
		questionID, err := strconv.Atoi(strings.TrimSpace(c.Params("question_id")))
		if err != nil || questionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}
		c.Locals("questionID", questionID)
		return c.Next()
	}
}

// QuizID validates the quiz id param
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}
		return c.Next()
	}
}

// PublishQuiz validates the publish toggle payload
func PublishQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseQuizID(c) {
			return nil
		}

		reqData := new(struct {
			IsPublished *bool `json:"is_published"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.IsPublished == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"is_published": "is_published is required!"})
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// AdminList validates the admin quiz listing query
func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page        *int    `query:"page"`
			Limit       *int    `query:"limit"`
			CourseID    *int    `query:"course_id"`
			ModuleID    *int    `query:"module_id"`
			IsPublished *bool   `query:"is_published"`
			Type        *string `query:"type"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// TakeQuiz validates the course and quiz id params for student quiz routes
func TakeQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseCourseID(c) {
			return nil
		}
		if !parseQuizID(c) {
			return nil
		}
		return c.Next()
	}
}

// SubmitQuiz validates the student submission payload
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseCourseID(c) {
			return nil
		}
		if !parseQuizID(c) {
			return nil
		}

		reqData := new(struct {
			Answers   map[string]any `json:"answers"`
			TimeTaken int            `json:"time_taken"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Answers == nil {
			errors["answers"] = "Answers are required!"
		}
		if reqData.TimeTaken < 0 {
			errors["time_taken"] = "Time taken must be >= 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// MyQuizzes validates the attempt feed query
func MyQuizzes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int `query:"page"`
			Limit    *int `query:"limit"`
			CourseID *int `query:"course_id"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// parseCourseID validates the course id param, writing the error response
// itself. Returns false when the request was already answered.
func parseCourseID(c *fiber.Ctx) bool {
	courseIDStr := strings.TrimSpace(c.Params("course_id"))
	courseID, err := strconv.Atoi(courseIDStr)
	if err != nil || courseID <= 0 {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		return false
	}
	c.Locals("courseID", courseID)
	return true
}

// parseQuizID validates the quiz id param, writing the error response itself
func parseQuizID(c *fiber.Ctx) bool {
	quizIDStr := strings.TrimSpace(c.Params("quiz_id"))
	quizID, err := strconv.Atoi(quizIDStr)
	if err != nil || quizID <= 0 {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		return false
	}
	c.Locals("quizID", quizID)
	return true
}
