package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_course"`
	CourseID         uint       `json:"course_id" gorm:"index;not null;uniqueIndex:idx_user_course"`
	BatchID          *uint      `json:"batch_id" gorm:"index"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress         float64    `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}

// Certificate is issued when an enrollment reaches 100% progress
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
