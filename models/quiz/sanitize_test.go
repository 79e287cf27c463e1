package quiz

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func choiceQuestion(t *testing.T, id uint, correct string, opts ...Option) Question {
	t.Helper()
	q := newQuestion(t, id, QuestionMultipleChoice, 1, correct)
	q.Options = jsonValue(t, opts)
	q.Explanation = "because"
	return q
}

func TestSanitizeStripsAnswerFields(t *testing.T) {
	q := &Quiz{
		Questions: []Question{
			choiceQuestion(t, 1, "a",
				Option{ID: "a", Text: "first", IsCorrect: true},
				Option{ID: "b", Text: "second"},
			),
			newQuestion(t, 2, QuestionShortAnswer, 2, "secret"),
		},
	}

	sanitized := SanitizeForAttempt(q, rand.New(rand.NewSource(1)))

	assert.Len(t, sanitized, 2)

	// Nothing answer-revealing may survive serialization
	b, err := json.Marshal(sanitized)
	assert.NoError(t, err)
	assert.NotContains(t, string(b), "correct_answer")
	assert.NotContains(t, string(b), "is_correct")
	assert.NotContains(t, string(b), "explanation")
	assert.NotContains(t, string(b), "secret")

	assert.Len(t, sanitized[0].Options, 2)
	assert.Empty(t, sanitized[1].Options)
}

func TestSanitizeShufflePreservesMembership(t *testing.T) {
	q := &Quiz{
		ShuffleQuestions: true,
		ShuffleOptions:   true,
		Questions: []Question{
			choiceQuestion(t, 1, "a",
				Option{ID: "a", Text: "a", IsCorrect: true},
				Option{ID: "b", Text: "b"},
				Option{ID: "c", Text: "c"},
				Option{ID: "d", Text: "d"},
			),
			newQuestion(t, 2, QuestionTrueFalse, 1, true),
			newQuestion(t, 3, QuestionShortAnswer, 1, "x"),
		},
	}

	sanitized := SanitizeForAttempt(q, rand.New(rand.NewSource(42)))

	ids := make(map[uint]bool)
	for _, sq := range sanitized {
		ids[sq.ID] = true
	}
	assert.Equal(t, map[uint]bool{1: true, 2: true, 3: true}, ids)

	for _, sq := range sanitized {
		if sq.ID == 1 {
			optIDs := make(map[string]bool)
			for _, opt := range sq.Options {
				optIDs[opt.ID] = true
			}
			assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true, "d": true}, optIDs)
		}
	}
}

func TestSanitizeNoShuffleKeepsOrder(t *testing.T) {
	q := &Quiz{
		Questions: []Question{
			newQuestion(t, 3, QuestionTrueFalse, 1, true),
			newQuestion(t, 1, QuestionTrueFalse, 1, true),
			newQuestion(t, 2, QuestionTrueFalse, 1, true),
		},
	}

	sanitized := SanitizeForAttempt(q, rand.New(rand.NewSource(7)))

	// orderedQuestions sorts by OrderIndex (set to id in the helper)
	assert.Equal(t, uint(1), sanitized[0].ID)
	assert.Equal(t, uint(2), sanitized[1].ID)
	assert.Equal(t, uint(3), sanitized[2].ID)
}

func TestSanitizeSkipsDeletedQuestions(t *testing.T) {
	deleted := newQuestion(t, 2, QuestionTrueFalse, 1, true)
	deleted.IsDeleted = true

	q := &Quiz{
		Questions: []Question{
			newQuestion(t, 1, QuestionTrueFalse, 1, true),
			deleted,
		},
	}

	sanitized := SanitizeForAttempt(q, rand.New(rand.NewSource(1)))
	assert.Len(t, sanitized, 1)
	assert.Equal(t, uint(1), sanitized[0].ID)
}

func TestBuildMetadata(t *testing.T) {
	limit := 30
	due := time.Now().Add(24 * time.Hour)
	q := &Quiz{MaxAttempts: 3, TimeLimit: &limit, DueDate: &due}

	meta := BuildMetadata(q, 2)

	assert.Equal(t, 3, meta.AttemptNumber)
	assert.Equal(t, 3, meta.MaxAttempts)
	assert.Equal(t, &limit, meta.TimeLimit)
	assert.Equal(t, &due, meta.DueDate)
}

func reviewAttempt(t *testing.T, q *Quiz, answers map[string]any) *Attempt {
	t.Helper()
	result := Score(q, answers)
	raw, err := json.Marshal(result.Answers)
	assert.NoError(t, err)

	return &Attempt{
		Answers: raw,
		Score:   result.Score,
		Passed:  result.Passed,
	}
}

func TestBuildReviewShowsAnswersWhenConfigured(t *testing.T) {
	q := &Quiz{
		PassingScore:       60,
		ShowCorrectAnswers: true,
		Questions: []Question{
			choiceQuestion(t, 1, "a",
				Option{ID: "a", Text: "first", IsCorrect: true},
				Option{ID: "b", Text: "second"},
			),
		},
	}

	last := reviewAttempt(t, q, map[string]any{"1": "b"})
	review := BuildReview(q, last)

	assert.Len(t, review, 1)
	assert.Equal(t, "b", review[0].UserAnswer)
	assert.False(t, review[0].IsCorrect)
	assert.Equal(t, "a", review[0].CorrectAnswer)
	assert.Equal(t, "because", review[0].Explanation)
}

func TestBuildReviewHidesAnswersWhenDisabled(t *testing.T) {
	q := &Quiz{
		PassingScore:       60,
		ShowCorrectAnswers: false,
		Questions: []Question{
			choiceQuestion(t, 1, "a",
				Option{ID: "a", Text: "first", IsCorrect: true},
				Option{ID: "b", Text: "second"},
			),
		},
	}

	last := reviewAttempt(t, q, map[string]any{"1": "a"})
	review := BuildReview(q, last)

	assert.Len(t, review, 1)
	assert.Equal(t, "a", review[0].UserAnswer)
	assert.True(t, review[0].IsCorrect)
	assert.Nil(t, review[0].CorrectAnswer)
	assert.Empty(t, review[0].Explanation)
}
