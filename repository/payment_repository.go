package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(tx *gorm.DB, t *entity.PaymentTransaction) error {
	return tx.Create(t).Error
}

func (r *PaymentRepository) FindByID(db *gorm.DB, id uint) (*entity.PaymentTransaction, error) {
	var t entity.PaymentTransaction
	if err := db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PaymentRepository) FindByOrderCode(db *gorm.DB, orderCode int64) (*entity.PaymentTransaction, error) {
	var t entity.PaymentTransaction
	if err := db.Where("order_code = ?", orderCode).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PaymentRepository) ListByUser(userID uint) ([]entity.PaymentTransaction, error) {
	var out []entity.PaymentTransaction
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, err
}

// UpdateGuarded writes the priced fields of t only while the stored status is
// still fromStatus. It reports whether a row was changed.
func (r *PaymentRepository) UpdateGuarded(tx *gorm.DB, t *entity.PaymentTransaction, fromStatus string) (bool, error) {
	res := tx.Model(&entity.PaymentTransaction{}).
		Where("id = ? AND transaction_status = ?", t.ID, fromStatus).
		Updates(map[string]any{
			"payment_method":     t.PaymentMethod,
			"transaction_amount": t.TransactionAmount,
			"loyalty_discount":   t.LoyaltyDiscount,
			"use_loyalty_points": t.UseLoyaltyPoints,
			"transaction_status": t.TransactionStatus,
			"checkout_url":       t.CheckoutURL,
			"payment_link_id":    t.PaymentLinkID,
			"cart_snapshot":      t.CartSnapshot,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PaymentRepository) UpdateStatus(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&entity.PaymentTransaction{}).Where("id = ?", id).Update("transaction_status", status).Error
}

// Delete hard-deletes so the order code can never resolve again.
func (r *PaymentRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Unscoped().Delete(&entity.PaymentTransaction{}, id).Error
}
