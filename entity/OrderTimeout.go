package entity

import (
	"time"

	"gorm.io/gorm"
)

// OrderTimeout is a persisted auto-cancel check, so pending checks survive restarts.
type OrderTimeout struct {
	gorm.Model
	OrderID     uint       `gorm:"uniqueIndex;not null" json:"orderId"`
	DueAt       time.Time  `gorm:"index;not null" json:"dueAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}
