package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type CancellationRepository struct {
	DB *gorm.DB
}

func NewCancellationRepository(db *gorm.DB) *CancellationRepository {
	return &CancellationRepository{DB: db}
}

func (r *CancellationRepository) Create(tx *gorm.DB, c *entity.OrderCancellation) error {
	return tx.Create(c).Error
}

func (r *CancellationRepository) CountByOrder(orderID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.OrderCancellation{}).Where("order_id = ?", orderID).Count(&cnt).Error
	return cnt, err
}

// ListWithRelations returns every cancellation with its user and order, newest first.
func (r *CancellationRepository) ListWithRelations() ([]entity.OrderCancellation, error) {
	var out []entity.OrderCancellation
	err := r.DB.Preload("User").Preload("Order").Order("cancellation_date DESC").Find(&out).Error
	return out, err
}
