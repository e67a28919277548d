package entity

import (
	"gorm.io/gorm"
)

type ChatRoom struct {
	gorm.Model
	OrderID uint  `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   Order `json:"-"`

	Messages []ChatMessage `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
