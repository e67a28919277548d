package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type StoreRepository struct {
	DB *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{DB: db}
}

func (r *StoreRepository) Create(store *entity.Store) error {
	return r.DB.Create(store).Error
}

func (r *StoreRepository) FindAll() ([]entity.Store, error) {
	var stores []entity.Store
	err := r.DB.Preload("Schedules").Order("id").Find(&stores).Error
	return stores, err
}

func (r *StoreRepository) FindByID(id uint) (*entity.Store, error) {
	var store entity.Store
	if err := r.DB.Preload("Schedules").First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *StoreRepository) FindByOwner(userID uint) ([]entity.Store, error) {
	var stores []entity.Store
	err := r.DB.Preload("Schedules").Where("user_id = ?", userID).Order("id").Find(&stores).Error
	return stores, err
}

func (r *StoreRepository) IsOwnedBy(storeID, userID uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Store{}).Where("id = ? AND user_id = ?", storeID, userID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *StoreRepository) Update(storeID uint, updates map[string]any) error {
	return r.DB.Model(&entity.Store{}).Where("id = ?", storeID).Updates(updates).Error
}

func (r *StoreRepository) SetOpen(storeID uint, open bool) error {
	return r.DB.Model(&entity.Store{}).Where("id = ?", storeID).UpdateColumn("is_open", open).Error
}

// ReplaceSchedules swaps every schedule of the store for rows inside tx.
func (r *StoreRepository) ReplaceSchedules(tx *gorm.DB, storeID uint, rows []entity.StoreSchedule) error {
	if err := tx.Unscoped().Where("store_id = ?", storeID).Delete(&entity.StoreSchedule{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].StoreID = storeID
	}
	return tx.Create(&rows).Error
}
