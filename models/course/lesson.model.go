package course

import "gorm.io/gorm"

// Lesson represents a single content unit within a module
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, IMAGE
	TextContent string `json:"text_content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	ImageURL    string `json:"image_url"`
	Duration    int    `json:"duration" gorm:"default:0"` // minutes
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// LessonCompletion tracks a user's completion of a lesson
type LessonCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
	LessonID  uint `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`
	IsDeleted bool `gorm:"default:false"`
}
