package quiz

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz types
const (
	TypePractice   = "practice"
	TypeGraded     = "graded"
	TypeAssessment = "assessment"
)

// QuestionType discriminates how a question is scored
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionEssay          QuestionType = "essay"
	QuestionMatching       QuestionType = "matching"
)

// ValidQuestionType reports whether t is a known question type
func ValidQuestionType(t string) bool {
	switch QuestionType(t) {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer, QuestionEssay, QuestionMatching:
		return true
	}
	return false
}

// Quiz represents a question set with grading and availability configuration
type Quiz struct {
	gorm.Model
	CourseID uint  `json:"course_id" gorm:"index;not null"`
	ModuleID uint  `json:"module_id" gorm:"index;not null"`
	LessonID *uint `json:"lesson_id"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructions string `json:"instructions" gorm:"type:text"`

	// No column defaults here: gorm omits zero-valued fields on insert when a
	// default tag is present, which would turn a stored false back into true
	// and make passing_score=0 unpersistable. Defaults live in the create path.
	Type            string  `json:"type"` // practice, graded, assessment
	PassingScore    float64 `json:"passing_score"`
	TotalPoints     float64 `json:"total_points"`
	GradingCriteria string  `json:"grading_criteria"`

	ShuffleQuestions   bool `json:"shuffle_questions"`
	ShuffleOptions     bool `json:"shuffle_options"`
	ShowCorrectAnswers bool `json:"show_correct_answers"`
	AllowReview        bool `json:"allow_review"`
	AutoGrade          bool `json:"auto_grade"`

	DueDate        *time.Time `json:"due_date"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	TimeLimit      *int       `json:"time_limit"` // minutes
	MaxAttempts    int        `json:"max_attempts"`

	IsPublished bool `json:"is_published" gorm:"default:false"`

	// Denormalized statistics, updated on submission
	SubmissionCount int     `json:"submission_count" gorm:"default:0"`
	AverageScore    float64 `json:"average_score" gorm:"default:0"`

	CreatedBy uint       `json:"created_by"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	IsDeleted bool       `gorm:"default:false"`
}

func (Quiz) TableName() string { return "quizzes" }

// Option is one selectable answer for a choice-style question
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question represents one assessable unit within a quiz
type Question struct {
	gorm.Model
	QuizID uint `json:"quiz_id" gorm:"index;not null"`

	Title   string       `json:"title"`
	Content string       `json:"content" gorm:"type:text"`
	Type    QuestionType `json:"type" gorm:"type:varchar(20);not null"`

	Options       datatypes.JSON `json:"options,omitempty"`       // []Option for choice-style types
	CorrectAnswer datatypes.JSON `json:"correct_answer,omitempty"` // shape depends on type
	Explanation   string         `json:"explanation"`

	Points     float64 `json:"points"`
	OrderIndex int     `json:"order_index"`
	IsDeleted  bool    `gorm:"default:false"`
}

func (Question) TableName() string { return "quiz_questions" }

// OptionList decodes the stored options, returning nil when absent
func (q *Question) OptionList() []Option {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// CorrectAnswerValue decodes the stored correct answer into its JSON value
func (q *Question) CorrectAnswerValue() any {
	if len(q.CorrectAnswer) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(q.CorrectAnswer, &v); err != nil {
		return nil
	}
	return v
}

// AutoGradable reports whether the engine scores this question type itself.
// Essay and matching questions require manual grading out of band.
func (q *Question) AutoGradable() bool {
	switch q.Type {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer:
		return true
	}
	return false
}

// Validate mirrors the write-time invariants on a question
func (q *Question) Validate() error {
	if !ValidQuestionType(string(q.Type)) {
		return errors.New("unknown question type")
	}
	if strings.TrimSpace(q.Content) == "" {
		return errors.New("question content is required")
	}
	if q.Points < 0 {
		return errors.New("points must be >= 0")
	}
	// Correct answer is declared for every type, even the manually graded ones
	if len(q.CorrectAnswer) == 0 {
		return errors.New("correct answer is required")
	}
	if q.Type == QuestionMultipleChoice && len(q.OptionList()) < 2 {
		return errors.New("multiple-choice questions need at least 2 options")
	}
	return nil
}

// SumPoints returns the total points across questions. Stored as the quiz's
// total_points at write time so reads can trust the column.
func SumPoints(questions []Question) float64 {
	var total float64
	for _, q := range questions {
		total += q.Points
	}
	return total
}
