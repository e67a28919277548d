package entity

import (
	"time"

	"gorm.io/gorm"
)

const CancellationStatusCanceled = "Canceled"

type OrderCancellation struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"-"`

	// one cancellation record per order
	OrderID uint  `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   Order `json:"-"`

	Reason           string    `json:"reason"`
	Status           string    `gorm:"not null;default:Canceled" json:"status"`
	CancellationDate time.Time `json:"cancellationDate"`
}
