package quizController

import (
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
	"lms/utils"
)

// eligibilityResponse maps a gate failure to its HTTP response
func eligibilityResponse(c *fiber.Ctx, status quizModels.EligibilityStatus) error {
	switch status {
	case quizModels.NotEnrolled:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	case quizModels.NotFound:
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case quizModels.NotYetAvailable:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Quiz is not available yet!", nil)
	case quizModels.Expired:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Quiz is no longer available!", nil)
	case quizModels.AttemptsExhausted:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}

// loadQuizContext fetches the pieces every student quiz operation needs
func loadQuizContext(userID uint, courseID, quizID int) (*quizModels.Quiz, bool, int64, error) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	enrolled := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error == nil

	var q quizModels.Quiz
	if err := db.Preload("Questions", "is_deleted = ?", false).
		Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return nil, enrolled, 0, err
	}

	var attemptCount int64
	db.Model(&quizModels.Attempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Count(&attemptCount)

	return &q, enrolled, attemptCount, nil
}

// quizBaseMap builds the student-facing quiz fields shared by all views
func quizBaseMap(q *quizModels.Quiz) fiber.Map {
	return fiber.Map{
		"id":                   q.ID,
		"title":                q.Title,
		"description":          q.Description,
		"instructions":         q.Instructions,
		"course_id":            q.CourseID,
		"module_id":            q.ModuleID,
		"lesson_id":            q.LessonID,
		"type":                 q.Type,
		"passing_score":        q.PassingScore,
		"total_points":         q.TotalPoints,
		"shuffle_questions":    q.ShuffleQuestions,
		"shuffle_options":      q.ShuffleOptions,
		"show_correct_answers": q.ShowCorrectAnswers,
		"allow_review":         q.AllowReview,
		"time_limit":           q.TimeLimit,
		"max_attempts":         q.MaxAttempts,
		"due_date":             q.DueDate,
	}
}

// GetQuizForAttempt delivers a sanitized quiz to an eligible student, or the
// review view of their last attempt once attempts are spent or review is allowed
func GetQuizForAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	q, enrolled, attemptCount, err := loadQuizContext(userID, courseID, quizID)
	if err != nil {
		if !enrolled {
			return eligibilityResponse(c, quizModels.NotEnrolled)
		}
		return eligibilityResponse(c, quizModels.NotFound)
	}

	status := quizModels.CheckEligibility(q, uint(courseID), enrolled, attemptCount, time.Now())
	if status != quizModels.Eligible && status != quizModels.AttemptsExhausted {
		return eligibilityResponse(c, status)
	}

	// Completed attempt on record: return the review view instead of a fresh
	// quiz when attempts are spent or the quiz allows review
	if attemptCount > 0 && (status == quizModels.AttemptsExhausted || q.AllowReview) {
		var last quizModels.Attempt
		if err := database.Database.Db.
			Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
			Order("attempt_number desc").First(&last).Error; err != nil {
			log.Printf("Error loading last attempt for quiz %d: %v", quizID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		}

		data := quizBaseMap(q)
		data["questions"] = quizModels.BuildReview(q, &last)
		data["completed"] = true
		data["submission"] = fiber.Map{
			"score":        last.Score,
			"passed":       last.Passed,
			"submitted_at": last.SubmittedAt,
			"time_taken":   last.TimeTaken,
		}
		data["metadata"] = quizModels.Metadata{
			AttemptNumber: int(attemptCount),
			MaxAttempts:   q.MaxAttempts,
			TimeLimit:     q.TimeLimit,
			DueDate:       q.DueDate,
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved successfully!", data)
	}

	if status != quizModels.Eligible {
		return eligibilityResponse(c, status)
	}

	// Fresh shuffle per fetch; never persisted
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	data := quizBaseMap(q)
	data["questions"] = quizModels.SanitizeForAttempt(q, rng)
	data["completed"] = false
	data["metadata"] = quizModels.BuildMetadata(q, attemptCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved successfully!", data)
}

// isDuplicateKey reports whether err is a unique-constraint violation from
// postgres or sqlite
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// SubmitQuizAttempt scores a submission and appends it to the student's
// attempt history
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers   map[string]any `json:"answers"`
		TimeTaken int            `json:"time_taken"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	q, enrolled, attemptCount, err := loadQuizContext(userID, courseID, quizID)
	if err != nil {
		if !enrolled {
			return eligibilityResponse(c, quizModels.NotEnrolled)
		}
		return eligibilityResponse(c, quizModels.NotFound)
	}

	now := time.Now()
	if status := quizModels.CheckEligibility(q, uint(courseID), enrolled, attemptCount, now); status != quizModels.Eligible {
		return eligibilityResponse(c, status)
	}

	result := quizModels.Score(q, reqData.Answers)

	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		log.Printf("Error encoding attempt answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	attempt := quizModels.Attempt{
		UserID:        userID,
		QuizID:        q.ID,
		CourseID:      uint(courseID),
		ModuleID:      q.ModuleID,
		AttemptNumber: int(attemptCount) + 1,
		Answers:       answersJSON,
		Score:         result.Score,
		Passed:        result.Passed,
		TimeTaken:     reqData.TimeTaken,
		SubmittedAt:   now,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		// A concurrent submission took this attempt number; the unique index
		// on (user_id, quiz_id, attempt_number) keeps max_attempts honest.
		// The loser retries once with the next free number, unless the race
		// winner spent the last attempt.
		if !isDuplicateKey(err) {
			log.Printf("Error saving quiz attempt: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
		}

		var maxNumber int
		database.Database.Db.Model(&quizModels.Attempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, q.ID).
			Select("COALESCE(MAX(attempt_number), 0)").Scan(&maxNumber)
		if maxNumber >= q.MaxAttempts {
			return eligibilityResponse(c, quizModels.AttemptsExhausted)
		}

		attempt.ID = 0
		attempt.AttemptNumber = maxNumber + 1
		if err := database.Database.Db.Create(&attempt).Error; err != nil {
			if isDuplicateKey(err) {
				return eligibilityResponse(c, quizModels.AttemptsExhausted)
			}
			log.Printf("Error saving quiz attempt: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
		}
	}

	updateQuizStats(q.ID)

	if result.Passed {
		go utils.NotifyEvent("quiz.passed", fiber.Map{
			"user_id":   userID,
			"quiz_id":   q.ID,
			"course_id": courseID,
			"score":     result.Score,
		})
	}

	correctAnswers := 0
	for _, a := range result.Answers {
		if a.IsCorrect {
			correctAnswers++
		}
	}

	data := fiber.Map{
		"quiz_id":        q.ID,
		"attempt_number": attempt.AttemptNumber,
		"score":          result.Score,
		"passed":         result.Passed,
		"earned_points":  result.EarnedPoints,
		"total_points":   result.TotalPoints,
		"details": fiber.Map{
			"total_questions": len(result.Answers),
			"correct_answers": correctAnswers,
			"time_taken":      reqData.TimeTaken,
		},
	}

	// Correct answers stay withheld after grading unless the quiz reveals them
	if q.ShowCorrectAnswers {
		data["results"] = result.Answers
	} else {
		redacted := make([]fiber.Map, len(result.Answers))
		for i, a := range result.Answers {
			redacted[i] = fiber.Map{
				"question_id": a.QuestionID,
				"user_answer": a.UserAnswer,
				"is_correct":  a.IsCorrect,
			}
		}
		data["results"] = redacted
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", data)
}

// updateQuizStats refreshes the quiz's denormalized submission statistics
func updateQuizStats(quizID uint) {
	db := database.Database.Db

	var count int64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&count)

	var avg float64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Select("COALESCE(AVG(score), 0)").Scan(&avg)

	if err := db.Model(&quizModels.Quiz{}).Where("id = ?", quizID).Updates(map[string]any{
		"submission_count": count,
		"average_score":    quizModels.Round2(avg),
	}).Error; err != nil {
		log.Printf("Error updating quiz stats for quiz %d: %v", quizID, err)
	}
}

// GetQuizResults lists the student's attempt history for a quiz with derived
// best score and latest attempt. Read-only.
func GetQuizResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return eligibilityResponse(c, quizModels.NotEnrolled)
	}

	var attempts []quizModels.Attempt
	database.Database.Db.
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Order("attempt_number asc").Find(&attempts)

	if len(attempts) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No submissions found for this quiz!", nil)
	}

	bestScore := 0.0
	submissions := make([]fiber.Map, len(attempts))
	for i, a := range attempts {
		if a.Score > bestScore {
			bestScore = a.Score
		}
		submissions[i] = fiber.Map{
			"attempt_number": a.AttemptNumber,
			"score":          a.Score,
			"passed":         a.Passed,
			"submitted_at":   a.SubmittedAt,
			"time_taken":     a.TimeTaken,
			"details": fiber.Map{
				"earned_points": a.EarnedPoints(),
				"total_points":  a.TotalPoints(),
			},
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results retrieved successfully!", fiber.Map{
		"quiz_id":        quizID,
		"submissions":    submissions,
		"best_score":     bestScore,
		"latest_attempt": submissions[len(submissions)-1],
	})
}

// GetMyQuizzes lists all of the student's quiz attempts, optionally filtered
// by course, with pagination
func GetMyQuizzes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page     *int `query:"page"`
		Limit    *int `query:"limit"`
		CourseID *int `query:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	query := db.Model(&quizModels.Attempt{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if reqData.CourseID != nil {
		query = query.Where("course_id = ?", *reqData.CourseID)
	}

	var total int64
	query.Count(&total)

	offset := (*reqData.Page - 1) * *reqData.Limit
	var attempts []quizModels.Attempt
	if err := query.Order("submitted_at desc").Offset(offset).Limit(*reqData.Limit).Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz attempts!", nil)
	}

	// Resolve quiz titles in one query
	quizIDs := make([]uint, 0, len(attempts))
	for _, a := range attempts {
		quizIDs = append(quizIDs, a.QuizID)
	}
	titles := make(map[uint]string)
	if len(quizIDs) > 0 {
		var quizzes []quizModels.Quiz
		db.Where("id IN ?", quizIDs).Find(&quizzes)
		for _, q := range quizzes {
			titles[q.ID] = q.Title
		}
	}

	items := make([]fiber.Map, len(attempts))
	for i, a := range attempts {
		items[i] = fiber.Map{
			"quiz_id":        a.QuizID,
			"quiz_title":     titles[a.QuizID],
			"course_id":      a.CourseID,
			"attempt_number": a.AttemptNumber,
			"score":          a.Score,
			"passed":         a.Passed,
			"submitted_at":   a.SubmittedAt,
		}
	}

	totalPages := (total + int64(*reqData.Limit) - 1) / int64(*reqData.Limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submissions retrieved successfully!", fiber.Map{
		"attempts": items,
		"pagination": fiber.Map{
			"page":        *reqData.Page,
			"limit":       *reqData.Limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}
