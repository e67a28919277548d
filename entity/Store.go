package entity

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"-"`

	StoreName     string  `gorm:"not null" json:"storeName"`
	StoreAddress  string  `json:"storeAddress"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
	BankName      string  `json:"bankName"`
	BankAccount   string  `json:"bankAccount"`
	AverageRating float64 `json:"averageRating"`

	// IsOpen is derived from Schedules and refreshed on read and on schedule updates.
	IsOpen bool `json:"isOpen"`

	Schedules  []StoreSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"schedules"`
	FoodGroups []FoodGroup     `json:"-"`
	Foods      []Food          `json:"-"`
}

// StoreSchedule is one opening window of a weekday. Weekday follows time.Weekday.
type StoreSchedule struct {
	gorm.Model
	StoreID   uint   `gorm:"index;not null" json:"storeId"`
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsClosed  bool   `json:"isClosed"`
}

// OpenAt reports whether any schedule of the store covers now.
func (s *Store) OpenAt(now time.Time) bool {
	for _, sc := range s.Schedules {
		if sc.covers(now) {
			return true
		}
	}
	return false
}

func (sc StoreSchedule) covers(now time.Time) bool {
	return !sc.IsClosed && weeklyWindowCovers(sc.Weekday, sc.OpenTime, sc.CloseTime, now)
}
