package quizController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
	quizValidator "lms/validators/quiz"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
		TimeZone:  "UTC",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Shared in-memory sqlite serializes writers
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	quizGroup := app.Group("/course/:course_id/quiz")
	quizGroup.Get("/:quiz_id", middleware.JWTMiddleware, quizValidator.TakeQuiz(), GetQuizForAttempt)
	quizGroup.Post("/:quiz_id/submit", middleware.JWTMiddleware, quizValidator.SubmitQuiz(), SubmitQuizAttempt)
	quizGroup.Get("/:quiz_id/results", middleware.JWTMiddleware, quizValidator.TakeQuiz(), GetQuizResults)

	return app
}

func createTestUser(t *testing.T, name string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     "STUDENT",
		IsActive: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return &user, token
}

func enrollUser(t *testing.T, userID, courseID uint) {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     "ENROLLED",
		EnrolledAt: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&enrollment).Error)
}

func mustJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func createTestQuiz(t *testing.T, courseID uint, maxAttempts int, showAnswers bool) *quizModels.Quiz {
	t.Helper()

	q := quizModels.Quiz{
		CourseID:           courseID,
		ModuleID:           1,
		Title:              "Checkpoint Quiz",
		Type:               quizModels.TypeGraded,
		PassingScore:       60,
		MaxAttempts:        maxAttempts,
		ShowCorrectAnswers: showAnswers,
		AllowReview:        true,
		AutoGrade:          true,
		IsPublished:        true,
	}
	require.NoError(t, database.Database.Db.Create(&q).Error)

	questions := []quizModels.Question{
		{
			QuizID:  q.ID,
			Content: "Pick the first option",
			Type:    quizModels.QuestionMultipleChoice,
			Options: mustJSON(t, []quizModels.Option{
				{ID: "a", Text: "first", IsCorrect: true},
				{ID: "b", Text: "second"},
			}),
			CorrectAnswer: mustJSON(t, "a"),
			Points:        1,
			OrderIndex:    0,
		},
		{
			QuizID:        q.ID,
			Content:       "True or false",
			Type:          quizModels.QuestionTrueFalse,
			CorrectAnswer: mustJSON(t, true),
			Points:        1,
			OrderIndex:    1,
		},
	}
	for i := range questions {
		require.NoError(t, database.Database.Db.Create(&questions[i]).Error)
	}

	q.TotalPoints = quizModels.SumPoints(questions)
	require.NoError(t, database.Database.Db.Save(&q).Error)

	return &q
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestGetQuizSanitized(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student1")
	quiz := createTestQuiz(t, 1, 3, true)
	enrollUser(t, user.ID, 1)

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d", quiz.ID), token, nil)

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["completed"])

	raw, err := json.Marshal(data["questions"])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
	assert.NotContains(t, string(raw), "is_correct")
}

func TestGetQuizEligibilityGate(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student2")
	quiz := createTestQuiz(t, 1, 3, true)

	// Not enrolled comes first
	status, _ := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d", quiz.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	enrollUser(t, user.ID, 1)

	// A quiz from a different course reads as not found
	status, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d", quiz.ID+100), token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Unpublished also reads as not found
	require.NoError(t, database.Database.Db.Model(&quizModels.Quiz{}).
		Where("id = ?", quiz.ID).Update("is_published", false).Error)
	status, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d", quiz.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmitQuizHappyPath(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student3")
	quiz := createTestQuiz(t, 1, 3, true)
	enrollUser(t, user.ID, 1)

	var questions []quizModels.Question
	require.NoError(t, database.Database.Db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions).Error)

	answers := map[string]any{
		fmt.Sprint(questions[0].ID): "a",
		fmt.Sprint(questions[1].ID): false,
	}

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID), token,
		map[string]any{"answers": answers, "time_taken": 42})

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 50.0, data["score"])
	assert.Equal(t, false, data["passed"])
	assert.Equal(t, 1.0, data["attempt_number"])

	// Stats are refreshed on submit
	var updated quizModels.Quiz
	require.NoError(t, database.Database.Db.First(&updated, quiz.ID).Error)
	assert.Equal(t, 1, updated.SubmissionCount)
	assert.Equal(t, 50.0, updated.AverageScore)
}

func TestSubmitQuizRedactsWhenAnswersHidden(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student4")
	quiz := createTestQuiz(t, 1, 3, false)
	enrollUser(t, user.ID, 1)

	var questions []quizModels.Question
	require.NoError(t, database.Database.Db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error)

	answers := map[string]any{fmt.Sprint(questions[0].ID): "b"}

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID), token,
		map[string]any{"answers": answers})

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)

	raw, err := json.Marshal(data["results"])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
	assert.NotContains(t, string(raw), "earned_points")
}

func TestSubmitQuizAttemptsExhausted(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student5")
	quiz := createTestQuiz(t, 1, 1, true)
	enrollUser(t, user.ID, 1)

	submission := map[string]any{"answers": map[string]any{}}
	path := fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID)

	status, _ := doRequest(t, app, http.MethodPost, path, token, submission)
	assert.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodPost, path, token, submission)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["message"], "Maximum attempts")
}

func TestSubmitQuizConcurrentNeverExceedsMaxAttempts(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student6")
	quiz := createTestQuiz(t, 1, 2, true)
	enrollUser(t, user.ID, 1)

	path := fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, path,
				bytes.NewBufferString(`{"answers":{}}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			if resp, err := app.Test(req, -1); err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, database.Database.Db.Model(&quizModels.Attempt{}).
		Where("user_id = ? AND quiz_id = ?", user.ID, quiz.ID).Count(&count).Error)
	assert.LessOrEqual(t, count, int64(quiz.MaxAttempts))
}

func TestGetQuizResultsBestScore(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student7")
	quiz := createTestQuiz(t, 1, 5, true)
	enrollUser(t, user.ID, 1)

	for i, score := range []float64{40, 85, 60} {
		attempt := quizModels.Attempt{
			UserID:        user.ID,
			QuizID:        quiz.ID,
			CourseID:      1,
			ModuleID:      1,
			AttemptNumber: i + 1,
			Answers:       datatypes.JSON("[]"),
			Score:         score,
			Passed:        score >= quiz.PassingScore,
			SubmittedAt:   time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, database.Database.Db.Create(&attempt).Error)
	}

	status, body := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d/results", quiz.ID), token, nil)

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 85.0, data["best_score"])

	latest := data["latest_attempt"].(map[string]any)
	assert.Equal(t, 3.0, latest["attempt_number"])
	assert.Equal(t, 60.0, latest["score"])

	assert.Len(t, data["submissions"].([]any), 3)
}

func TestQuizCreateKeepsDisabledFlags(t *testing.T) {
	setupTestApp(t)

	q := quizModels.Quiz{
		CourseID:           1,
		ModuleID:           1,
		Title:              "Strict Quiz",
		Type:               quizModels.TypeGraded,
		PassingScore:       0,
		MaxAttempts:        1,
		ShowCorrectAnswers: false,
		AllowReview:        false,
		AutoGrade:          false,
		IsPublished:        true,
	}
	require.NoError(t, database.Database.Db.Create(&q).Error)

	question := quizModels.Question{
		QuizID:        q.ID,
		Content:       "Ungraded question",
		Type:          quizModels.QuestionShortAnswer,
		CorrectAnswer: mustJSON(t, "paris"),
		Points:        0,
	}
	require.NoError(t, database.Database.Db.Create(&question).Error)

	var stored quizModels.Quiz
	require.NoError(t, database.Database.Db.First(&stored, q.ID).Error)
	assert.False(t, stored.ShowCorrectAnswers)
	assert.False(t, stored.AllowReview)
	assert.False(t, stored.AutoGrade)
	assert.Equal(t, 0.0, stored.PassingScore)

	var storedQ quizModels.Question
	require.NoError(t, database.Database.Db.First(&storedQ, question.ID).Error)
	assert.Equal(t, 0.0, storedQ.Points)
}

func TestSubmitQuizRetriesWhenAttemptNumberTaken(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student10")
	quiz := createTestQuiz(t, 1, 3, true)
	enrollUser(t, user.ID, 1)

	// A cleared attempt still occupies its number in the unique index
	taken := quizModels.Attempt{
		UserID:        user.ID,
		QuizID:        quiz.ID,
		CourseID:      1,
		ModuleID:      1,
		AttemptNumber: 1,
		Answers:       datatypes.JSON("[]"),
		SubmittedAt:   time.Now(),
		IsDeleted:     true,
	}
	require.NoError(t, database.Database.Db.Create(&taken).Error)

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID), token,
		map[string]any{"answers": map[string]any{}})

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 2.0, data["attempt_number"])
}

func TestSubmitQuizTakenLastNumberExhausts(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student11")
	quiz := createTestQuiz(t, 1, 1, true)
	enrollUser(t, user.ID, 1)

	taken := quizModels.Attempt{
		UserID:        user.ID,
		QuizID:        quiz.ID,
		CourseID:      1,
		ModuleID:      1,
		AttemptNumber: 1,
		Answers:       datatypes.JSON("[]"),
		SubmittedAt:   time.Now(),
		IsDeleted:     true,
	}
	require.NoError(t, database.Database.Db.Create(&taken).Error)

	status, body := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/1/quiz/%d/submit", quiz.ID), token,
		map[string]any{"answers": map[string]any{}})

	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["message"], "Maximum attempts")
}

func TestGetQuizResultsNoAttempts(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student8")
	quiz := createTestQuiz(t, 1, 3, true)
	enrollUser(t, user.ID, 1)

	status, _ := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/1/quiz/%d/results", quiz.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetQuizReviewAfterAttempt(t *testing.T) {
	app := setupTestApp(t)
	user, token := createTestUser(t, "student9")
	quiz := createTestQuiz(t, 1, 1, true)
	enrollUser(t, user.ID, 1)

	path := fmt.Sprintf("/course/1/quiz/%d", quiz.ID)

	status, _ := doRequest(t, app, http.MethodPost, path+"/submit", token,
		map[string]any{"answers": map[string]any{}})
	require.Equal(t, http.StatusOK, status)

	// Attempts exhausted, the fetch returns the review view instead of a 403
	status, body := doRequest(t, app, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["completed"])
	assert.NotNil(t, data["submission"])

	raw, err := json.Marshal(data["questions"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "correct_answer")
}
