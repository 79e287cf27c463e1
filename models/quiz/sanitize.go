package quiz

import (
	"math/rand"
	"sort"
	"time"
)

// SanitizedOption is an option with its correctness flag removed
type SanitizedOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SanitizedQuestion is a question stripped of every answer-revealing field
type SanitizedQuestion struct {
	ID         uint              `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Type       QuestionType      `json:"type"`
	Options    []SanitizedOption `json:"options,omitempty"`
	Points     float64           `json:"points"`
	OrderIndex int               `json:"order_index"`
}

// ReviewQuestion merges a question with the student's recorded answer for
// post-attempt review. CorrectAnswer and Explanation are populated only when
// the quiz is configured to show correct answers.
type ReviewQuestion struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Type          QuestionType `json:"type"`
	Points        float64      `json:"points"`
	OrderIndex    int          `json:"order_index"`
	UserAnswer    string       `json:"user_answer"`
	IsCorrect     bool         `json:"is_correct"`
	EarnedPoints  float64      `json:"earned_points"`
	CorrectAnswer any          `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Metadata accompanies every student-facing quiz view
type Metadata struct {
	AttemptNumber int        `json:"attempt_number"`
	MaxAttempts   int        `json:"max_attempts"`
	TimeLimit     *int       `json:"time_limit"`
	DueDate       *time.Time `json:"due_date"`
}

// BuildMetadata derives view metadata from the quiz and prior attempt count
func BuildMetadata(q *Quiz, priorAttempts int64) Metadata {
	return Metadata{
		AttemptNumber: int(priorAttempts) + 1,
		MaxAttempts:   q.MaxAttempts,
		TimeLimit:     q.TimeLimit,
		DueDate:       q.DueDate,
	}
}

// SanitizeForAttempt produces the student-safe view of an unattempted quiz:
// correct answers and explanations removed, option correctness stripped, and
// order shuffled per fetch when configured. rng is injected so tests can
// supply a deterministic source; shuffles are never persisted.
func SanitizeForAttempt(q *Quiz, rng *rand.Rand) []SanitizedQuestion {
	questions := orderedQuestions(q.Questions)

	sanitized := make([]SanitizedQuestion, 0, len(questions))
	for _, question := range questions {
		sq := SanitizedQuestion{
			ID:         question.ID,
			Title:      question.Title,
			Content:    question.Content,
			Type:       question.Type,
			Points:     question.Points,
			OrderIndex: question.OrderIndex,
		}
		if opts := question.OptionList(); len(opts) > 0 {
			sq.Options = make([]SanitizedOption, len(opts))
			for i, opt := range opts {
				sq.Options[i] = SanitizedOption{ID: opt.ID, Text: opt.Text}
			}
			if q.ShuffleOptions {
				rng.Shuffle(len(sq.Options), func(i, j int) {
					sq.Options[i], sq.Options[j] = sq.Options[j], sq.Options[i]
				})
			}
		}
		sanitized = append(sanitized, sq)
	}

	if q.ShuffleQuestions {
		rng.Shuffle(len(sanitized), func(i, j int) {
			sanitized[i], sanitized[j] = sanitized[j], sanitized[i]
		})
	}

	return sanitized
}

// BuildReview merges question text with the last attempt for students who
// have a completed attempt and may review it.
func BuildReview(q *Quiz, last *Attempt) []ReviewQuestion {
	byQuestion := make(map[uint]AnswerDetail)
	for _, d := range last.AnswerList() {
		byQuestion[d.QuestionID] = d
	}

	questions := orderedQuestions(q.Questions)
	review := make([]ReviewQuestion, 0, len(questions))
	for _, question := range questions {
		rq := ReviewQuestion{
			ID:         question.ID,
			Title:      question.Title,
			Content:    question.Content,
			Type:       question.Type,
			Points:     question.Points,
			OrderIndex: question.OrderIndex,
		}
		if d, ok := byQuestion[question.ID]; ok {
			rq.UserAnswer = d.UserAnswer
			rq.IsCorrect = d.IsCorrect
			rq.EarnedPoints = d.EarnedPoints
		}
		if q.ShowCorrectAnswers {
			rq.CorrectAnswer = question.CorrectAnswerValue()
			rq.Explanation = question.Explanation
		}
		review = append(review, rq)
	}
	return review
}

// orderedQuestions returns live questions in display order
func orderedQuestions(questions []Question) []Question {
	ordered := make([]Question, 0, len(questions))
	for _, q := range questions {
		if !q.IsDeleted {
			ordered = append(ordered, q)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})
	return ordered
}
