package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email or user name.
func (r *UserRepository) FindByIdentifier(ident string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ? OR user_name = ?", ident, ident).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountBy counts users whose column equals value. column must be a trusted identifier.
func (r *UserRepository) CountBy(column string, value any) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *UserRepository) List(role string) ([]entity.User, error) {
	var users []entity.User
	q := r.DB.Order("id DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&users).Error
	return users, err
}

// CountByRole returns the number of users per role.
func (r *UserRepository) CountByRole() (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	if err := r.DB.Model(&entity.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

// DebitLoyalty subtracts amount only when the balance covers it. It reports
// whether the debit happened.
func (r *UserRepository) DebitLoyalty(tx *gorm.DB, userID uint, amount int64) (bool, error) {
	res := tx.Model(&entity.User{}).
		Where("id = ? AND loyalty_points >= ?", userID, amount).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) AddLoyalty(tx *gorm.DB, userID uint, amount int64) error {
	return tx.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", amount)).Error
}
