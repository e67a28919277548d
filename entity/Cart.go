package entity

import (
	"gorm.io/gorm"
)

// Cart belongs to one user and one store. A user holds at most one cart per store.
type Cart struct {
	gorm.Model
	UserID  uint  `gorm:"uniqueIndex:idx_cart_user_store;not null" json:"userId"`
	User    User  `json:"-"`
	StoreID uint  `gorm:"uniqueIndex:idx_cart_user_store;not null" json:"storeId"`
	Store   Store `json:"-"`

	Items      []CartItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	TotalPrice int64      `json:"totalPrice"`

	DeliveryAddress string `json:"deliveryAddress"`
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	Description     string `json:"description"`

	PaymentTransactionID *uint `json:"paymentTransactionId,omitempty"`

	// Version guards read-modify-write cycles on the cart row.
	Version int `gorm:"not null;default:0" json:"version"`
}

type CartItem struct {
	gorm.Model
	CartID uint `gorm:"index;not null" json:"cartId"`

	FoodID  uint `gorm:"not null" json:"foodId"`
	Food    Food `json:"-"`
	StoreID uint `json:"storeId"`

	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	TotalPrice int64 `json:"totalPrice"`

	// ComboKey is the canonical form of Combos, used to merge identical lines.
	ComboKey string      `json:"-"`
	Combos   []CartCombo `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"combos"`
}

// CartCombo is an add-on attached to every unit of its line item.
type CartCombo struct {
	gorm.Model
	CartItemID uint `gorm:"index;not null" json:"cartItemId"`
	FoodID     uint `gorm:"not null" json:"foodId"`
	Food       Food `json:"-"`

	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	TotalPrice int64 `json:"totalPrice"`
}

// Recalculate refreshes combo and line totals:
// quantity*price + quantity*sum(combo.quantity*combo.price).
func (it *CartItem) Recalculate() {
	q := int64(it.Quantity)
	var perUnit int64
	for i := range it.Combos {
		c := &it.Combos[i]
		unit := int64(c.Quantity) * c.Price
		c.TotalPrice = q * unit
		perUnit += unit
	}
	it.TotalPrice = q*it.Price + q*perUnit
}

// UnitTotal is the price of one unit of the line including its combos.
func (it *CartItem) UnitTotal() int64 {
	if it.Quantity == 0 {
		return 0
	}
	return it.TotalPrice / int64(it.Quantity)
}

// Recalculate refreshes every line and the cart total.
func (c *Cart) Recalculate() {
	var total int64
	for i := range c.Items {
		c.Items[i].Recalculate()
		total += c.Items[i].TotalPrice
	}
	c.TotalPrice = total
}
