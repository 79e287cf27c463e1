package quiz

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerDetail is the per-question outcome recorded on an attempt
type AnswerDetail struct {
	QuestionID    uint    `json:"question_id"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Points        float64 `json:"points"`
	EarnedPoints  float64 `json:"earned_points"`
}

// Attempt is one student's graded submission for a quiz. Attempts are
// append-only: a new record per submission, never mutated afterwards.
// The unique index on (user_id, quiz_id, attempt_number) is what closes
// the race between two concurrent submissions passing the max-attempts
// check together: the loser's insert is rejected by the constraint.
type Attempt struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_quiz_attempt_no"`
	QuizID   uint `json:"quiz_id" gorm:"index;not null;uniqueIndex:idx_quiz_attempt_no"`
	CourseID uint `json:"course_id" gorm:"index;not null"`
	ModuleID uint `json:"module_id"`

	AttemptNumber int            `json:"attempt_number" gorm:"not null;uniqueIndex:idx_quiz_attempt_no"`
	Answers       datatypes.JSON `json:"answers"` // []AnswerDetail
	Score         float64        `json:"score"`   // percentage, 0-100, 2 decimals
	Passed        bool           `json:"passed"`
	TimeTaken     int            `json:"time_taken"` // seconds
	SubmittedAt   time.Time      `json:"submitted_at"`
	IsDeleted     bool           `gorm:"default:false"`
}

func (Attempt) TableName() string { return "quiz_attempts" }

// AnswerList decodes the recorded per-question outcomes
func (a *Attempt) AnswerList() []AnswerDetail {
	if len(a.Answers) == 0 {
		return nil
	}
	var details []AnswerDetail
	if err := json.Unmarshal(a.Answers, &details); err != nil {
		return nil
	}
	return details
}

// EarnedPoints sums the points earned across the attempt's answers
func (a *Attempt) EarnedPoints() float64 {
	var sum float64
	for _, d := range a.AnswerList() {
		sum += d.EarnedPoints
	}
	return sum
}

// TotalPoints sums the available points across the attempt's answers
func (a *Attempt) TotalPoints() float64 {
	var sum float64
	for _, d := range a.AnswerList() {
		sum += d.Points
	}
	return sum
}
