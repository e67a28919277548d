package entity

import (
	"time"

	"gorm.io/gorm"
)

type Food struct {
	gorm.Model
	StoreID uint  `gorm:"index;not null" json:"storeId"`
	Store   Store `json:"-"`

	FoodGroupID *uint `gorm:"index" json:"foodGroupId"`

	FoodName        string `gorm:"not null" json:"foodName"`
	Description     string `json:"description"`
	ImageURL        string `json:"imageUrl"`
	Price           int64  `gorm:"not null" json:"price"`
	DiscountedPrice int64  `json:"discountedPrice"`
	IsDiscounted    bool   `json:"isDiscounted"`
	IsAvailable     bool   `json:"isAvailable"`

	SellingTimes []FoodSellingTime `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sellingTimes"`
}

// FoodSellingTime restricts when a food can be ordered. A food without selling
// times is sold whenever it is available.
type FoodSellingTime struct {
	gorm.Model
	FoodID   uint   `gorm:"index;not null" json:"foodId"`
	Weekday  int    `json:"weekday"`
	FromTime string `json:"fromTime"`
	ToTime   string `json:"toTime"`
}

// UnitPrice is the price charged per unit, honouring an active discount.
func (f *Food) UnitPrice() int64 {
	if f.IsDiscounted && f.DiscountedPrice > 0 {
		return f.DiscountedPrice
	}
	return f.Price
}

// SellingAt reports whether the food can be ordered at now.
func (f *Food) SellingAt(now time.Time) bool {
	if !f.IsAvailable {
		return false
	}
	if len(f.SellingTimes) == 0 {
		return true
	}
	for _, st := range f.SellingTimes {
		if weeklyWindowCovers(st.Weekday, st.FromTime, st.ToTime, now) {
			return true
		}
	}
	return false
}
