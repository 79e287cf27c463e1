package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform user (student or admin)
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, ADMIN
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	IsDeleted bool   `gorm:"default:false"`
}

// RefreshToken stores a long-lived token used to mint new access tokens
type RefreshToken struct {
	gorm.Model
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	UserEmail string    `json:"user_email"`
	ExpiresAt time.Time `json:"expires_at"`
	IsDeleted bool      `gorm:"default:false"`
}
