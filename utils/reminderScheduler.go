package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
)

// InitializeReminderScheduler sets up the daily quiz deadline reminder job
func InitializeReminderScheduler() {
	log.Println("[QUIZ-SCHEDULER] Initializing quiz reminder scheduler...")

	c := cron.New(cron.WithLocation(quizModels.Location))

	// Run daily at 9 AM in the reference timezone
	c.AddFunc("0 9 * * *", func() {
		log.Println("[QUIZ-SCHEDULER] Running daily quiz deadline check...")
		ProcessQuizReminders()
	})

	c.Start()
	log.Println("[QUIZ-SCHEDULER] Quiz reminder scheduler started - runs daily at 9 AM")
}

// ProcessQuizReminders emails enrolled students about published quizzes due
// within the next 48 hours that they have not attempted yet
func ProcessQuizReminders() {
	db := database.Database.Db
	now := time.Now()
	twoDaysFromNow := now.AddDate(0, 0, 2)

	var dueQuizzes []quizModels.Quiz
	if err := db.
		Where("is_published = ? AND is_deleted = ? AND due_date IS NOT NULL", true, false).
		Where("due_date BETWEEN ? AND ?", now, twoDaysFromNow).
		Find(&dueQuizzes).Error; err != nil {
		log.Printf("[QUIZ-SCHEDULER] Error fetching due quizzes: %v", err)
		return
	}

	log.Printf("[QUIZ-SCHEDULER] Found %d quizzes due within 48h", len(dueQuizzes))

	for _, q := range dueQuizzes {
		var enrollments []courseModels.Enrollment
		if err := db.Where("course_id = ? AND is_deleted = ?", q.CourseID, false).Find(&enrollments).Error; err != nil {
			log.Printf("[QUIZ-SCHEDULER] Error fetching enrollments for course %d: %v", q.CourseID, err)
			continue
		}

		for _, enrollment := range enrollments {
			var attemptCount int64
			db.Model(&quizModels.Attempt{}).
				Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", enrollment.UserID, q.ID, false).
				Count(&attemptCount)
			if attemptCount > 0 {
				continue
			}

			var user models.User
			if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
				log.Printf("[QUIZ-SCHEDULER] Error fetching user %d: %v", enrollment.UserID, err)
				continue
			}

			due := q.DueDate.In(quizModels.Location).Format("Jan 2, 2006 3:04 PM")
			if err := SendQuizReminderEmail(user.Email, user.Name, q.Title, due); err != nil {
				log.Printf("[QUIZ-SCHEDULER] Error sending reminder to %s: %v", user.Email, err)
			}
		}
	}
}
