package entity

import (
	"gorm.io/gorm"
)

type FoodGroup struct {
	gorm.Model
	StoreID   uint   `gorm:"index;not null" json:"storeId"`
	GroupName string `gorm:"not null" json:"groupName"`

	Foods []Food `json:"foods,omitempty"`
}
