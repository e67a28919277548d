package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type FoodRepository struct {
	DB *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{DB: db}
}

func (r *FoodRepository) FindByID(id uint) (*entity.Food, error) {
	var f entity.Food
	if err := r.DB.Preload("SellingTimes").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FoodRepository) FindByIDs(ids []uint) ([]entity.Food, error) {
	var foods []entity.Food
	if len(ids) == 0 {
		return foods, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) ListByStore(storeID uint) ([]entity.Food, error) {
	var foods []entity.Food
	err := r.DB.Preload("SellingTimes").Where("store_id = ?", storeID).Order("id").Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) Create(f *entity.Food) error {
	return r.DB.Create(f).Error
}

func (r *FoodRepository) Update(foodID uint, updates map[string]any) error {
	return r.DB.Model(&entity.Food{}).Where("id = ?", foodID).Updates(updates).Error
}

func (r *FoodRepository) Delete(foodID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("food_id = ?", foodID).Delete(&entity.FoodSellingTime{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Food{}, foodID).Error
	})
}

func (r *FoodRepository) ReplaceSellingTimes(tx *gorm.DB, foodID uint, rows []entity.FoodSellingTime) error {
	if err := tx.Unscoped().Where("food_id = ?", foodID).Delete(&entity.FoodSellingTime{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].FoodID = foodID
	}
	return tx.Create(&rows).Error
}

// ---------------- Food groups ----------------

func (r *FoodRepository) CreateGroup(g *entity.FoodGroup) error {
	return r.DB.Create(g).Error
}

func (r *FoodRepository) FindGroup(id uint) (*entity.FoodGroup, error) {
	var g entity.FoodGroup
	if err := r.DB.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *FoodRepository) ListGroups(storeID uint) ([]entity.FoodGroup, error) {
	var groups []entity.FoodGroup
	err := r.DB.Preload("Foods").Where("store_id = ?", storeID).Order("id").Find(&groups).Error
	return groups, err
}

func (r *FoodRepository) RenameGroup(id uint, name string) error {
	return r.DB.Model(&entity.FoodGroup{}).Where("id = ?", id).Update("group_name", name).Error
}

// DeleteGroup removes the group and detaches its foods.
func (r *FoodRepository) DeleteGroup(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Food{}).Where("food_group_id = ?", id).Update("food_group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.FoodGroup{}, id).Error
	})
}
