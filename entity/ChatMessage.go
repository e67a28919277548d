package entity

import (
	"gorm.io/gorm"
)

type ChatMessage struct {
	gorm.Model
	RoomID   uint   `gorm:"index;not null" json:"roomId"`
	SenderID uint   `gorm:"index;not null" json:"senderId"`
	Sender   User   `json:"-"`
	Body     string `gorm:"type:text;not null" json:"body"`
}
