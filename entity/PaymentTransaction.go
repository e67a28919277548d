package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionPending = "Pending"
	TransactionSuccess = "Success"
	TransactionFailed  = "Failed"
)

const (
	PaymentMethodPayOS = "PayOS"
	PaymentMethodCash  = "Cash"
)

type PaymentTransaction struct {
	gorm.Model
	CartID  uint `gorm:"index" json:"cartId"`
	UserID  uint `gorm:"index;not null" json:"userId"`
	StoreID uint `json:"storeId"`

	PaymentMethod     string `gorm:"not null" json:"paymentMethod"`
	TransactionAmount int64  `json:"transactionAmount"`
	LoyaltyDiscount   int64  `json:"loyaltyDiscount"`
	UseLoyaltyPoints  bool   `json:"useLoyaltyPoints"`
	TransactionStatus string `gorm:"not null;default:Pending" json:"transactionStatus"`

	// OrderCode is the gateway-facing identifier and stays fixed for the transaction's lifetime.
	OrderCode     int64  `gorm:"uniqueIndex;not null" json:"orderCode"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
	PaymentLinkID string `json:"paymentLinkId,omitempty"`

	CartSnapshot datatypes.JSONType[CartSnapshot] `json:"cartSnapshot"`
}
