package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func jsonValue(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %v: %v", v, err)
	}
	return datatypes.JSON(b)
}

func newQuestion(t *testing.T, id uint, qType QuestionType, points float64, correct any) Question {
	t.Helper()
	return Question{
		Model:         gorm.Model{ID: id},
		Content:       "question content",
		Type:          qType,
		Points:        points,
		OrderIndex:    int(id),
		CorrectAnswer: jsonValue(t, correct),
	}
}

func TestScoreAllCorrect(t *testing.T) {
	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionMultipleChoice, 2, "opt-a"),
			newQuestion(t, 2, QuestionTrueFalse, 3, true),
		},
	}

	result := Score(q, map[string]any{
		"1": "opt-a",
		"2": true,
	})

	assert.Equal(t, 5.0, result.EarnedPoints)
	assert.Equal(t, 5.0, result.TotalPoints)
	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)
}

func TestScorePartialRounding(t *testing.T) {
	// 1 of 3 equal-weight questions correct should give 33.33, not 33.333...
	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionMultipleChoice, 1, "a"),
			newQuestion(t, 2, QuestionMultipleChoice, 1, "b"),
			newQuestion(t, 3, QuestionMultipleChoice, 1, "c"),
		},
	}

	result := Score(q, map[string]any{
		"1": "a",
		"2": "wrong",
		"3": "wrong",
	})

	assert.Equal(t, 33.33, result.Score)
	assert.False(t, result.Passed)
}

func TestScoreZeroTotalPoints(t *testing.T) {
	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionMultipleChoice, 0, "a"),
		},
	}

	result := Score(q, map[string]any{"1": "a"})

	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.Passed)
}

func TestScorePassBoundary(t *testing.T) {
	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionTrueFalse, 3, true),
			newQuestion(t, 2, QuestionTrueFalse, 2, false),
		},
	}

	// 3 of 5 points is exactly 60
	result := Score(q, map[string]any{"1": true, "2": true})

	assert.Equal(t, 60.0, result.Score)
	assert.True(t, result.Passed)
}

func TestScoreTypeInvariance(t *testing.T) {
	// Booleans and numbers compare by stringified value regardless of the
	// JSON type the client sent
	q := &Quiz{
		PassingScore: 50,
		Questions: []Question{
			newQuestion(t, 1, QuestionTrueFalse, 1, true),
			newQuestion(t, 2, QuestionMultipleChoice, 1, 2),
		},
	}

	result := Score(q, map[string]any{
		"1": "true",
		"2": "2",
	})

	assert.Equal(t, 2.0, result.EarnedPoints)
	for _, d := range result.Answers {
		assert.True(t, d.IsCorrect)
	}
}

func TestScoreShortAnswerNormalization(t *testing.T) {
	q := &Quiz{
		PassingScore: 50,
		Questions: []Question{
			newQuestion(t, 1, QuestionShortAnswer, 1, "Paris"),
		},
	}

	result := Score(q, map[string]any{"1": "  pArIs  "})

	assert.Equal(t, 1.0, result.EarnedPoints)
	assert.True(t, result.Answers[0].IsCorrect)
}

func TestScoreEssayAndMatchingNeverAutoScored(t *testing.T) {
	q := &Quiz{
		PassingScore: 1,
		Questions: []Question{
			newQuestion(t, 1, QuestionEssay, 5, "model answer"),
			newQuestion(t, 2, QuestionMatching, 5, map[string]string{"a": "1"}),
		},
	}

	// Even an exactly-matching submission earns nothing
	result := Score(q, map[string]any{
		"1": "model answer",
		"2": map[string]string{"a": "1"},
	})

	assert.Equal(t, 0.0, result.EarnedPoints)
	assert.Equal(t, 10.0, result.TotalPoints)
	for _, d := range result.Answers {
		assert.False(t, d.IsCorrect)
	}
}

func TestScoreUnansweredQuestionsStillRecorded(t *testing.T) {
	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionTrueFalse, 1, true),
			newQuestion(t, 2, QuestionTrueFalse, 1, false),
		},
	}

	result := Score(q, map[string]any{"1": true})

	assert.Len(t, result.Answers, 2)
	assert.Equal(t, "", result.Answers[1].UserAnswer)
	assert.False(t, result.Answers[1].IsCorrect)
}

func TestScoreSkipsDeletedQuestions(t *testing.T) {
	deleted := newQuestion(t, 2, QuestionTrueFalse, 10, true)
	deleted.IsDeleted = true

	q := &Quiz{
		PassingScore: 60,
		Questions: []Question{
			newQuestion(t, 1, QuestionTrueFalse, 1, true),
			deleted,
		},
	}

	result := Score(q, map[string]any{"1": true, "2": true})

	assert.Len(t, result.Answers, 1)
	assert.Equal(t, 1.0, result.TotalPoints)
	assert.Equal(t, 100.0, result.Score)
}

func TestAnswerString(t *testing.T) {
	assert.Equal(t, "", AnswerString(nil))
	assert.Equal(t, "hello", AnswerString("hello"))
	assert.Equal(t, "true", AnswerString(true))
	assert.Equal(t, "2", AnswerString(float64(2)))
	assert.Equal(t, "2.5", AnswerString(2.5))
	assert.Equal(t, `{"a":"1"}`, AnswerString(map[string]string{"a": "1"}))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 0.0, Percentage(0, 10))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(3, 3))
}

func TestQuestionValidate(t *testing.T) {
	q := newQuestion(t, 1, QuestionTrueFalse, 1, true)
	assert.NoError(t, q.Validate())

	q.Content = "  "
	assert.Error(t, q.Validate())

	q = newQuestion(t, 1, "made-up", 1, true)
	assert.Error(t, q.Validate())

	q = newQuestion(t, 1, QuestionTrueFalse, -1, true)
	assert.Error(t, q.Validate())

	q = newQuestion(t, 1, QuestionMultipleChoice, 1, "a")
	q.Options = jsonValue(t, []Option{{ID: "a", Text: "only one"}})
	assert.Error(t, q.Validate())

	q.Options = jsonValue(t, []Option{
		{ID: "a", Text: "first", IsCorrect: true},
		{ID: "b", Text: "second"},
	})
	assert.NoError(t, q.Validate())
}

func TestSumPoints(t *testing.T) {
	questions := []Question{
		newQuestion(t, 1, QuestionTrueFalse, 1.5, true),
		newQuestion(t, 2, QuestionTrueFalse, 2.5, false),
	}
	assert.Equal(t, 4.0, SumPoints(questions))
	assert.Equal(t, 0.0, SumPoints(nil))
}
