package configs

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		logger.Warn("skip seeding admin: ADMIN_EMAIL or ADMIN_PASSWORD missing")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("admin already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		UserName:    "admin",
		FullName:    "Administrator",
		Email:       email,
		PhoneNumber: "admin",
		Password:    string(hash),
		Role:        entity.RoleAdmin,
		IsApproved:  true,
		IsVerified:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("admin seeded", "email", email)
	return nil
}
