package repository

import (
	"time"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type OrderTimeoutRepository struct {
	DB *gorm.DB
}

func NewOrderTimeoutRepository(db *gorm.DB) *OrderTimeoutRepository {
	return &OrderTimeoutRepository{DB: db}
}

func (r *OrderTimeoutRepository) Create(tx *gorm.DB, t *entity.OrderTimeout) error {
	return tx.Create(t).Error
}

// FindDue returns unprocessed rows due at or before now, oldest first.
func (r *OrderTimeoutRepository) FindDue(now time.Time, limit int) ([]entity.OrderTimeout, error) {
	var out []entity.OrderTimeout
	err := r.DB.Where("processed_at IS NULL AND due_at <= ?", now).
		Order("due_at").Limit(limit).Find(&out).Error
	return out, err
}

func (r *OrderTimeoutRepository) FindByOrder(orderID uint) (*entity.OrderTimeout, error) {
	var t entity.OrderTimeout
	if err := r.DB.Where("order_id = ?", orderID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *OrderTimeoutRepository) MarkProcessed(db *gorm.DB, orderID uint, at time.Time) error {
	return db.Model(&entity.OrderTimeout{}).
		Where("order_id = ? AND processed_at IS NULL", orderID).
		Update("processed_at", at).Error
}
