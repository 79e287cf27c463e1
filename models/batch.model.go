package models

import (
	"time"

	"gorm.io/gorm"
)

// Batch represents an intake group for a course
type Batch struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxStudents int        `json:"max_students" gorm:"default:0"` // 0 = unlimited
	Status      string     `json:"status" gorm:"default:'UPCOMING'"` // UPCOMING, ONGOING, COMPLETED
	IsDeleted   bool       `gorm:"default:false"`
}
