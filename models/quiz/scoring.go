package quiz

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ScoreResult is the outcome of grading one submission
type ScoreResult struct {
	Answers      []AnswerDetail
	EarnedPoints float64
	TotalPoints  float64
	Score        float64 // percentage, rounded to 2 decimals
	Passed       bool
}

// Score grades a submission: answers maps question id (decimal string) to the
// submitted value. Every live question contributes a result row whether or
// not it was answered.
func Score(q *Quiz, answers map[string]any) ScoreResult {
	var result ScoreResult
	for _, question := range orderedQuestions(q.Questions) {
		submitted, ok := answers[strconv.FormatUint(uint64(question.ID), 10)]
		userAnswer := ""
		if ok {
			userAnswer = AnswerString(submitted)
		}
		correct := AnswerString(question.CorrectAnswerValue())

		isCorrect := false
		if ok && question.AutoGradable() {
			isCorrect = compareAnswer(question.Type, userAnswer, correct)
		}

		earned := 0.0
		if isCorrect {
			earned = question.Points
		}

		result.Answers = append(result.Answers, AnswerDetail{
			QuestionID:    question.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: correct,
			IsCorrect:     isCorrect,
			Points:        question.Points,
			EarnedPoints:  earned,
		})
		result.TotalPoints += question.Points
		result.EarnedPoints += earned
	}

	result.Score = Percentage(result.EarnedPoints, result.TotalPoints)
	result.Passed = result.Score >= q.PassingScore
	return result
}

// compareAnswer applies the per-type comparison rule. Essay and matching are
// never auto-scored.
func compareAnswer(t QuestionType, submitted, correct string) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse:
		return submitted == correct
	case QuestionShortAnswer:
		return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
	default:
		return false
	}
}

// Percentage computes the aggregate score, guarding the zero-point quiz
func Percentage(earned, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(earned / total * 100)
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnswerString normalizes a submitted or stored answer value to its string
// form so comparison is invariant to the JSON type ("true" vs true, "2" vs 2).
func AnswerString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		// matching answers and other structured shapes keep a canonical JSON form
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
