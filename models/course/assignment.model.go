package course

import (
	"time"

	"gorm.io/gorm"
)

// Assignment represents a manually graded task attached to a module
type Assignment struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	ModuleID    uint       `json:"module_id" gorm:"index;not null"`
	Title       string     `json:"title"`
	Description string     `json:"description" gorm:"type:text"`
	TotalMarks  float64    `json:"total_marks" gorm:"default:100"`
	DueDate     *time.Time `json:"due_date"`
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	IsDeleted   bool       `gorm:"default:false"`
}

// AssignmentSubmission is a student's answer awaiting manual review
type AssignmentSubmission struct {
	gorm.Model
	AssignmentID uint       `json:"assignment_id" gorm:"index;not null"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	Answer       string     `json:"answer" gorm:"type:text"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	Reviewed     bool       `json:"reviewed" gorm:"default:false"`
	Grade        *float64   `json:"grade"`
	Feedback     string     `json:"feedback"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	IsDeleted    bool       `gorm:"default:false"`
}
