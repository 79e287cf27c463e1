package quizValidator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func updateQuizApp() *fiber.App {
	app := fiber.New()
	app.Put("/quiz/:quiz_id", UpdateQuiz(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func putQuiz(t *testing.T, app *fiber.App, body map[string]any) int {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPut, "/quiz/1", &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestUpdateQuizRejectsShortTitle(t *testing.T) {
	app := updateQuizApp()
	status := putQuiz(t, app, map[string]any{"title": "ab"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUpdateQuizRejectsUnknownType(t *testing.T) {
	app := updateQuizApp()
	status := putQuiz(t, app, map[string]any{"type": "exam"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUpdateQuizRejectsNegativeTimeLimit(t *testing.T) {
	app := updateQuizApp()
	status := putQuiz(t, app, map[string]any{"time_limit": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUpdateQuizAcceptsPartialPayload(t *testing.T) {
	app := updateQuizApp()

	status := putQuiz(t, app, map[string]any{"title": "Updated checkpoint"})
	assert.Equal(t, http.StatusOK, status)

	// Omitted fields are not held to the create rules
	status = putQuiz(t, app, map[string]any{"passing_score": 70})
	assert.Equal(t, http.StatusOK, status)
}
