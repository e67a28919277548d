package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"-"`

	StoreID uint  `gorm:"index;not null" json:"storeId"`
	Store   Store `json:"-"`

	ShipperID *uint `gorm:"index" json:"shipperId,omitempty"`
	Shipper   *User `gorm:"foreignKey:ShipperID" json:"-"`

	PaymentTransactionID uint `gorm:"index" json:"paymentTransactionId"`

	CartSnapshot datatypes.JSONType[CartSnapshot] `json:"cartSnapshot"`
	TotalAmount  int64                            `json:"totalAmount"`

	OrderStatus   string `gorm:"index;not null;default:Pending" json:"orderStatus"`
	PaymentStatus string `gorm:"not null;default:Pending" json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`

	UseLoyaltyPoints  bool  `json:"useLoyaltyPoints"`
	LoyaltyPointsUsed int64 `json:"loyaltyPointsUsed"`

	DeliveryAddress string `json:"deliveryAddress"`
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	Description     string `json:"description"`

	Version int `gorm:"not null;default:0" json:"version"`

	ChatRoom *ChatRoom `gorm:"foreignKey:OrderID;references:ID" json:"-"`
}
