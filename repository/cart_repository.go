package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Food").
		Preload("Items.Combos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Combos.Food")
}

func (r *CartRepository) FindByID(db *gorm.DB, cartID uint) (*entity.Cart, error) {
	var c entity.Cart
	if err := withItems(db).First(&c, cartID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) FindByUserAndStore(db *gorm.DB, userID, storeID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := withItems(db).Where("user_id = ? AND store_id = ?", userID, storeID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) ListByUser(userID uint) ([]entity.Cart, error) {
	var carts []entity.Cart
	err := withItems(r.DB).Where("user_id = ?", userID).Order("id").Find(&carts).Error
	return carts, err
}

// Create inserts a new cart together with its items and combos.
func (r *CartRepository) Create(tx *gorm.DB, c *entity.Cart) error {
	if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
		return err
	}
	return r.createItems(tx, c)
}

// createItems inserts lines and combos row by row. Preloaded Food relations are never written.
func (r *CartRepository) createItems(tx *gorm.DB, c *entity.Cart) error {
	for i := range c.Items {
		it := &c.Items[i]
		it.ID = 0
		it.CartID = c.ID
		if err := tx.Omit(clause.Associations).Create(it).Error; err != nil {
			return err
		}
		for j := range it.Combos {
			cb := &it.Combos[j]
			cb.ID = 0
			cb.CartItemID = it.ID
			if err := tx.Omit(clause.Associations).Create(cb).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// bumpVersion applies updates only when the stored version still matches c.Version.
func (r *CartRepository) bumpVersion(tx *gorm.DB, c *entity.Cart, updates map[string]any) error {
	updates["version"] = c.Version + 1
	res := tx.Model(&entity.Cart{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	c.Version++
	return nil
}

// SaveWithItems persists the recalculated total and replaces every line item.
func (r *CartRepository) SaveWithItems(tx *gorm.DB, c *entity.Cart) error {
	if err := r.bumpVersion(tx, c, map[string]any{"total_price": c.TotalPrice}); err != nil {
		return err
	}
	if err := r.deleteItems(tx, c.ID); err != nil {
		return err
	}
	return r.createItems(tx, c)
}

// SaveDetails writes delivery fields under the version guard.
func (r *CartRepository) SaveDetails(tx *gorm.DB, c *entity.Cart) error {
	return r.bumpVersion(tx, c, map[string]any{
		"delivery_address": c.DeliveryAddress,
		"receiver_name":    c.ReceiverName,
		"receiver_phone":   c.ReceiverPhone,
		"description":      c.Description,
	})
}

func (r *CartRepository) LinkTransaction(tx *gorm.DB, c *entity.Cart, txnID uint) error {
	if err := r.bumpVersion(tx, c, map[string]any{"payment_transaction_id": txnID}); err != nil {
		return err
	}
	c.PaymentTransactionID = &txnID
	return nil
}

func (r *CartRepository) UnlinkTransaction(tx *gorm.DB, txnID uint) error {
	return tx.Model(&entity.Cart{}).
		Where("payment_transaction_id = ?", txnID).
		Updates(map[string]any{
			"payment_transaction_id": nil,
			"version":                gorm.Expr("version + 1"),
		}).Error
}

func (r *CartRepository) deleteItems(tx *gorm.DB, cartID uint) error {
	itemIDs := tx.Model(&entity.CartItem{}).Select("id").Where("cart_id = ?", cartID)
	if err := tx.Unscoped().Where("cart_item_id IN (?)", itemIDs).Delete(&entity.CartCombo{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}

// Delete hard-deletes the cart and its content so the (user, store) pair is free
// again. The cart row is removed only while its version is unchanged.
func (r *CartRepository) Delete(tx *gorm.DB, c *entity.Cart) error {
	res := tx.Unscoped().Where("id = ? AND version = ?", c.ID, c.Version).Delete(&entity.Cart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return r.deleteItems(tx, c.ID)
}
