package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderPending   = "PENDING"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
	OrderRefunded  = "REFUNDED"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Order represents a purchase of one or more courses
type Order struct {
	gorm.Model
	OrderNumber string  `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID      uint    `json:"user_id" gorm:"index;not null"`
	Status      string  `json:"status" gorm:"default:'PENDING'"`
	Subtotal    float64 `json:"subtotal" gorm:"default:0"`
	Discount    float64 `json:"discount" gorm:"default:0"`
	Total       float64 `json:"total" gorm:"default:0"`

	// Payment record only; gateway processing is out of scope
	PaymentMethod string     `json:"payment_method"` // CARD, BANK_TRANSFER, CASH
	PaymentStatus string     `json:"payment_status" gorm:"default:'PENDING'"`
	TransactionID string     `json:"transaction_id"`
	Currency      string     `json:"currency" gorm:"default:'USD'"`
	PaidAt        *time.Time `json:"paid_at"`

	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	IsDeleted bool        `gorm:"default:false"`
}

// OrderItem snapshots a course at purchase time
type OrderItem struct {
	gorm.Model
	OrderID   uint    `json:"order_id" gorm:"index;not null"`
	CourseID  uint    `json:"course_id" gorm:"index;not null"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount" gorm:"default:0"`
	IsDeleted bool    `gorm:"default:false"`
}
