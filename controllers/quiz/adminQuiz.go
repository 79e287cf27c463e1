package quizController

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	quizModels "lms/models/quiz"
	quizValidator "lms/validators/quiz"
)

// requireAdmin loads the caller and confirms the admin role. Returns nil user
// when the request was already answered.
func requireAdmin(c *fiber.Ctx) *models.User {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil
	}

	if user.Role != "ADMIN" {
		_ = middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return nil
	}
	return &user
}

// buildQuestion converts a validated question payload into a model row
func buildQuestion(p *quizValidator.QuestionPayload) (quizModels.Question, error) {
	question := quizModels.Question{
		Title:       p.Title,
		Content:     p.Content,
		Type:        quizModels.QuestionType(p.Type),
		Points:      1,
		Explanation: p.Explanation,
		OrderIndex:  p.OrderIndex,
	}
	// An explicit 0 is a valid ungraded question; only absence defaults to 1
	if p.Points != nil {
		question.Points = *p.Points
	}

	if len(p.Options) > 0 {
		opts := make([]quizModels.Option, len(p.Options))
		for i, o := range p.Options {
			opts[i] = quizModels.Option{
				ID:        uuid.NewString(),
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			}
		}
		b, err := json.Marshal(opts)
		if err != nil {
			return question, err
		}
		question.Options = datatypes.JSON(b)
	}

	if p.CorrectAnswer != nil {
		b, err := json.Marshal(p.CorrectAnswer)
		if err != nil {
			return question, err
		}
		question.CorrectAnswer = datatypes.JSON(b)
	}

	return question, question.Validate()
}

// AdminCreateQuiz creates a quiz together with its questions
func AdminCreateQuiz(c *fiber.Ctx) error {
	user := requireAdmin(c)
	if user == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	questions := make([]quizModels.Question, 0, len(reqData.Questions))
	for i := range reqData.Questions {
		question, err := buildQuestion(&reqData.Questions[i])
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
		}
		questions = append(questions, question)
	}

	q := quizModels.Quiz{
		CourseID:         reqData.CourseID,
		ModuleID:         reqData.ModuleID,
		LessonID:         reqData.LessonID,
		Title:            reqData.Title,
		Description:      reqData.Description,
		Instructions:     reqData.Instructions,
		Type:             quizModels.TypePractice,
		PassingScore:     60,
		GradingCriteria:  reqData.GradingCriteria,
		ShuffleQuestions: reqData.ShuffleQuestions,
		ShuffleOptions:   reqData.ShuffleOptions,
		// Total points are derived from the questions, not taken from the caller
		TotalPoints:        quizModels.SumPoints(questions),
		ShowCorrectAnswers: true,
		AllowReview:        true,
		AutoGrade:          true,
		DueDate:            reqData.DueDate,
		AvailableFrom:      reqData.AvailableFrom,
		AvailableUntil:     reqData.AvailableUntil,
		TimeLimit:          reqData.TimeLimit,
		MaxAttempts:        1,
		CreatedBy:          user.ID,
		Questions:          questions,
	}

	if reqData.Type != "" {
		q.Type = reqData.Type
	}
	if reqData.PassingScore != nil {
		q.PassingScore = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		q.MaxAttempts = *reqData.MaxAttempts
	}
	if reqData.ShowCorrectAnswers != nil {
		q.ShowCorrectAnswers = *reqData.ShowCorrectAnswers
	}
	if reqData.AllowReview != nil {
		q.AllowReview = *reqData.AllowReview
	}
	if reqData.AutoGrade != nil {
		q.AutoGrade = *reqData.AutoGrade
	}

	if err := database.Database.Db.Create(&q).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", q)
}

// AdminUpdateQuiz updates quiz settings (questions are managed separately)
func AdminUpdateQuiz(c *fiber.Ctx) error {
	user := requireAdmin(c)
	if user == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuizUpdate").(*quizValidator.QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var q quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	updates := map[string]any{}
	if reqData.Title != "" {
		updates["title"] = reqData.Title
	}
	if reqData.Description != "" {
		updates["description"] = reqData.Description
	}
	if reqData.Instructions != "" {
		updates["instructions"] = reqData.Instructions
	}
	if reqData.Type != "" {
		updates["type"] = reqData.Type
	}
	if reqData.GradingCriteria != "" {
		updates["grading_criteria"] = reqData.GradingCriteria
	}
	if reqData.PassingScore != nil {
		updates["passing_score"] = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		updates["max_attempts"] = *reqData.MaxAttempts
	}
	if reqData.TimeLimit != nil {
		updates["time_limit"] = *reqData.TimeLimit
	}
	if reqData.DueDate != nil {
		updates["due_date"] = *reqData.DueDate
	}
	if reqData.AvailableFrom != nil {
		updates["available_from"] = *reqData.AvailableFrom
	}
	if reqData.AvailableUntil != nil {
		updates["available_until"] = *reqData.AvailableUntil
	}
	if reqData.ShowCorrectAnswers != nil {
		updates["show_correct_answers"] = *reqData.ShowCorrectAnswers
	}
	if reqData.AllowReview != nil {
		updates["allow_review"] = *reqData.AllowReview
	}
	if reqData.AutoGrade != nil {
		updates["auto_grade"] = *reqData.AutoGrade
	}
	updates["shuffle_questions"] = reqData.ShuffleQuestions
	updates["shuffle_options"] = reqData.ShuffleOptions

	if err := database.Database.Db.Model(&q).Updates(updates).Error; err != nil {
		log.Printf("Error updating quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", q)
}

// AdminPublishQuiz toggles the quiz publication flag
func AdminPublishQuiz(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)
	reqData, ok := c.Locals("validatedPublish").(*struct {
		IsPublished *bool `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var q quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if err := database.Database.Db.Model(&q).Update("is_published", *reqData.IsPublished).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz publication updated!", fiber.Map{
		"id":           q.ID,
		"is_published": *reqData.IsPublished,
	})
}

// AdminDeleteQuiz soft-deletes a quiz and its questions
func AdminDeleteQuiz(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var q quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quizModels.Quiz{}).Where("id = ?", quizID).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&quizModels.Question{}).Where("quiz_id = ?", quizID).Update("is_deleted", true).Error
	})
	if err != nil {
		log.Printf("Error deleting quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// AdminGetQuiz returns the full quiz including answer data
func AdminGetQuiz(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var q quizModels.Quiz
	if err := database.Database.Db.Preload("Questions", "is_deleted = ?", false).
		Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz retrieved successfully!", q)
}

// AdminListQuizzes lists quizzes with filters and pagination
func AdminListQuizzes(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedAdminList").(*struct {
		Page        *int    `query:"page"`
		Limit       *int    `query:"limit"`
		CourseID    *int    `query:"course_id"`
		ModuleID    *int    `query:"module_id"`
		IsPublished *bool   `query:"is_published"`
		Type        *string `query:"type"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Model(&quizModels.Quiz{}).Where("is_deleted = ?", false)
	if reqData.CourseID != nil {
		query = query.Where("course_id = ?", *reqData.CourseID)
	}
	if reqData.ModuleID != nil {
		query = query.Where("module_id = ?", *reqData.ModuleID)
	}
	if reqData.IsPublished != nil {
		query = query.Where("is_published = ?", *reqData.IsPublished)
	}
	if reqData.Type != nil {
		query = query.Where("type = ?", *reqData.Type)
	}

	var total int64
	query.Count(&total)

	offset := (*reqData.Page - 1) * *reqData.Limit
	var quizzes []quizModels.Quiz
	if err := query.Order("created_at desc").Offset(offset).Limit(*reqData.Limit).Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	totalPages := (total + int64(*reqData.Limit) - 1) / int64(*reqData.Limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": quizzes,
		"pagination": fiber.Map{
			"page":        *reqData.Page,
			"limit":       *reqData.Limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// recomputeTotalPoints keeps the quiz's total_points in sync with its questions
func recomputeTotalPoints(quizID uint) {
	db := database.Database.Db

	var questions []quizModels.Question
	db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions)

	if err := db.Model(&quizModels.Quiz{}).Where("id = ?", quizID).
		Update("total_points", quizModels.SumPoints(questions)).Error; err != nil {
		log.Printf("Error updating total points for quiz %d: %v", quizID, err)
	}
}

// AdminAddQuestion appends a question to an existing quiz
func AdminAddQuestion(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var q quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	question, err := buildQuestion(reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}
	question.QuizID = q.ID

	if err := database.Database.Db.Create(&question).Error; err != nil {
		log.Printf("Error adding question to quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	recomputeTotalPoints(q.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminUpdateQuestion replaces a question's content and grading metadata
func AdminUpdateQuestion(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)
	questionID := c.Locals("questionID").(int)

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var existing quizModels.Question
	if err := database.Database.Db.
		Where("id = ? AND quiz_id = ? AND is_deleted = ?", questionID, quizID, false).
		First(&existing).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	question, err := buildQuestion(reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	updates := map[string]any{
		"title":          question.Title,
		"content":        question.Content,
		"type":           question.Type,
		"options":        question.Options,
		"correct_answer": question.CorrectAnswer,
		"explanation":    question.Explanation,
		"points":         question.Points,
		"order_index":    question.OrderIndex,
	}
	if err := database.Database.Db.Model(&existing).Updates(updates).Error; err != nil {
		log.Printf("Error updating question %d: %v", questionID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	recomputeTotalPoints(existing.QuizID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", existing)
}

// AdminDeleteQuestion soft-deletes a question
func AdminDeleteQuestion(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)
	questionID := c.Locals("questionID").(int)

	var existing quizModels.Question
	if err := database.Database.Db.
		Where("id = ? AND quiz_id = ? AND is_deleted = ?", questionID, quizID, false).
		First(&existing).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if err := database.Database.Db.Model(&existing).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	recomputeTotalPoints(existing.QuizID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// AdminGetQuizStats reports aggregate statistics for one quiz
func AdminGetQuizStats(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var q quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	db := database.Database.Db

	var submissionCount int64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&submissionCount)

	var passCount int64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND passed = ? AND is_deleted = ?", quizID, true, false).Count(&passCount)

	type aggregates struct {
		AvgScore float64
		MinTime  int
		MaxTime  int
		AvgTime  float64
	}
	var agg aggregates
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Select("COALESCE(AVG(score), 0) as avg_score, COALESCE(MIN(time_taken), 0) as min_time, COALESCE(MAX(time_taken), 0) as max_time, COALESCE(AVG(time_taken), 0) as avg_time").
		Scan(&agg)

	passRate := 0.0
	if submissionCount > 0 {
		passRate = quizModels.Round2(float64(passCount) / float64(submissionCount) * 100)
	}

	var participants int64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Distinct("user_id").Count(&participants)

	var uniquePassed int64
	db.Model(&quizModels.Attempt{}).Where("quiz_id = ? AND passed = ? AND is_deleted = ?", quizID, true, false).
		Distinct("user_id").Count(&uniquePassed)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz statistics fetched successfully!", fiber.Map{
		"quiz_id":          q.ID,
		"title":            q.Title,
		"course_id":        q.CourseID,
		"total_points":     q.TotalPoints,
		"submission_count": submissionCount,
		"participants":     participants,
		"average_score":    quizModels.Round2(agg.AvgScore),
		"pass_count":       passCount,
		"fail_count":       submissionCount - passCount,
		"pass_rate":        passRate,
		"unique_passed":    uniquePassed,
		"time_taken": fiber.Map{
			"min":     agg.MinTime,
			"max":     agg.MaxTime,
			"average": quizModels.Round2(agg.AvgTime),
		},
	})
}
