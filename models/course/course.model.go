package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title         string  `json:"title"`
	Slug          string  `json:"slug" gorm:"index"`
	Description   string  `json:"description"`
	Author        string  `json:"author"`
	Price         float64 `json:"price" gorm:"default:0"`
	Discount      float64 `json:"discount" gorm:"default:0"`
	Duration      int64   `json:"duration" gorm:"default:0"`     // duration in hours
	Status        string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL  string  `json:"thumbnail_url"`
	TotalEnrolled int     `json:"total_enrolled" gorm:"default:0"`
	IsPublished   bool    `json:"is_published" gorm:"default:false"`
	IsDeleted     bool    `gorm:"default:false"`
}
