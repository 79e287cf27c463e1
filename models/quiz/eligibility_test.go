package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func publishedQuiz(courseID uint) *Quiz {
	return &Quiz{
		CourseID:    courseID,
		IsPublished: true,
		MaxAttempts: 3,
	}
}

func TestCheckEligibilityOrder(t *testing.T) {
	now := time.Now()

	// Enrollment is checked before anything else
	q := publishedQuiz(1)
	q.IsPublished = false
	assert.Equal(t, NotEnrolled, CheckEligibility(q, 1, false, 99, now))

	// Unpublished quizzes and course mismatches both collapse into not-found
	q = publishedQuiz(1)
	q.IsPublished = false
	assert.Equal(t, NotFound, CheckEligibility(q, 1, true, 0, now))

	q = publishedQuiz(1)
	assert.Equal(t, NotFound, CheckEligibility(q, 2, true, 0, now))

	// Window checks come before the attempt limit
	q = publishedQuiz(1)
	future := now.Add(time.Hour)
	q.AvailableFrom = &future
	assert.Equal(t, NotYetAvailable, CheckEligibility(q, 1, true, 99, now))
}

func TestCheckEligibilityWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	q := publishedQuiz(1)
	q.AvailableFrom = &past
	q.AvailableUntil = &future
	assert.Equal(t, Eligible, CheckEligibility(q, 1, true, 0, now))

	q.AvailableUntil = &past
	assert.Equal(t, Expired, CheckEligibility(q, 1, true, 0, now))

	q = publishedQuiz(1)
	q.AvailableFrom = &future
	assert.Equal(t, NotYetAvailable, CheckEligibility(q, 1, true, 0, now))

	// Open-ended quizzes have no window failures
	q = publishedQuiz(1)
	assert.Equal(t, Eligible, CheckEligibility(q, 1, true, 0, now))
}

func TestCheckEligibilityAttemptLimit(t *testing.T) {
	now := time.Now()

	q := publishedQuiz(1)
	q.MaxAttempts = 2

	assert.Equal(t, Eligible, CheckEligibility(q, 1, true, 0, now))
	assert.Equal(t, Eligible, CheckEligibility(q, 1, true, 1, now))
	assert.Equal(t, AttemptsExhausted, CheckEligibility(q, 1, true, 2, now))
	assert.Equal(t, AttemptsExhausted, CheckEligibility(q, 1, true, 3, now))
}

func TestCheckEligibilityBoundaryTimes(t *testing.T) {
	now := time.Now()

	// Exactly at the window edges counts as inside
	q := publishedQuiz(1)
	q.AvailableFrom = &now
	q.AvailableUntil = &now
	assert.Equal(t, Eligible, CheckEligibility(q, 1, true, 0, now))
}

func TestSetLocationFallsBackToUTC(t *testing.T) {
	orig := Location
	defer func() { Location = orig }()

	SetLocation("Not/AZone")
	assert.Equal(t, time.UTC, Location)

	SetLocation("Asia/Dhaka")
	assert.Equal(t, "Asia/Dhaka", Location.String())
}
