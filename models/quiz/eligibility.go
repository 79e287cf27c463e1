package quiz

import (
	"log"
	"time"
)

// EligibilityStatus is the outcome of the availability/eligibility gate
type EligibilityStatus string

const (
	Eligible          EligibilityStatus = "eligible"
	NotEnrolled       EligibilityStatus = "not-enrolled"
	NotFound          EligibilityStatus = "not-found"
	NotYetAvailable   EligibilityStatus = "not-yet-available"
	Expired           EligibilityStatus = "expired"
	AttemptsExhausted EligibilityStatus = "max-attempts-reached"
)

// Location is the fixed reference timezone in which availability windows are
// evaluated, so deadlines stay deterministic across deployment regions.
var Location = time.UTC

// SetLocation loads the reference timezone by name, falling back to UTC
func SetLocation(name string) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Invalid REFERENCE_TIMEZONE %q, falling back to UTC: %v", name, err)
		Location = time.UTC
		return
	}
	Location = loc
}

// CheckEligibility decides whether a student may start or view a quiz attempt
// right now. Checks run in a fixed order and the first failure wins:
// enrollment, existence (unpublished or course mismatch collapse into
// not-found so quiz existence is never leaked), availability window, then
// the attempt limit.
func CheckEligibility(q *Quiz, courseID uint, enrolled bool, attemptCount int64, now time.Time) EligibilityStatus {
	if !enrolled {
		return NotEnrolled
	}
	if !q.IsPublished || q.CourseID != courseID {
		return NotFound
	}
	now = now.In(Location)
	if q.AvailableFrom != nil && now.Before(q.AvailableFrom.In(Location)) {
		return NotYetAvailable
	}
	if q.AvailableUntil != nil && now.After(q.AvailableUntil.In(Location)) {
		return Expired
	}
	if attemptCount >= int64(q.MaxAttempts) {
		return AttemptsExhausted
	}
	return Eligible
}
