package entity

import (
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleShipper  = "shipper"
)

// NeedsApproval reports whether accounts of the role must be approved by an admin.
func NeedsApproval(role string) bool {
	return role == RoleSeller || role == RoleShipper
}

type User struct {
	gorm.Model
	UserName    string `gorm:"uniqueIndex;not null" json:"userName"`
	FullName    string `json:"fullName"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string `gorm:"uniqueIndex;not null" json:"phoneNumber"`
	Password    string `json:"-"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	IsApproved       bool   `json:"isApproved"`
	IsVerified       bool   `json:"isVerified"`
	VerificationCode string `json:"-"`

	LoyaltyPoints int64  `gorm:"not null;default:0" json:"loyaltyPoints"`
	IsOnline      bool   `json:"isOnline"`
	ExpoPushToken string `json:"-"`

	ProfilePicture string `json:"profilePicture"`
	IDImage        string `json:"idImage,omitempty"`

	// Relations, preload only when needed
	Stores []Store `gorm:"foreignKey:UserID" json:"-"`
	Orders []Order `json:"-"`
}
