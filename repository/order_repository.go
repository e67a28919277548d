package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// OrderFilter narrows order listings. Zero fields are ignored.
type OrderFilter struct {
	UserID    uint
	StoreID   uint
	ShipperID uint
	Statuses  []string
	// Unassigned together with ShipperID matches orders without a shipper or assigned to ShipperID.
	Unassigned bool
}

func (f OrderFilter) apply(db *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.StoreID != 0 {
		db = db.Where("store_id = ?", f.StoreID)
	}
	switch {
	case f.Unassigned && f.ShipperID != 0:
		db = db.Where("(shipper_id IS NULL OR shipper_id = ?)", f.ShipperID)
	case f.Unassigned:
		db = db.Where("shipper_id IS NULL")
	case f.ShipperID != 0:
		db = db.Where("shipper_id = ?", f.ShipperID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("order_status IN ?", f.Statuses)
	}
	return db
}

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) FindByID(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// FindDetail loads the order with customer, store and shipper.
func (r *OrderRepository) FindDetail(orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("User").Preload("Store").Preload("Shipper").First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByPaymentTransaction(db *gorm.DB, txnID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.Where("payment_transaction_id = ?", txnID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(f OrderFilter) ([]entity.Order, error) {
	var out []entity.Order
	err := f.apply(r.DB.Model(&entity.Order{})).Order("id DESC").Find(&out).Error
	return out, err
}

// UpdateGuarded applies updates only while the order is still in fromStatus at
// version. It reports whether a row was changed. The version is bumped.
func (r *OrderRepository) UpdateGuarded(tx *gorm.DB, orderID uint, fromStatus string, version int, updates map[string]any) (bool, error) {
	updates["version"] = version + 1
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status = ? AND version = ?", orderID, fromStatus, version).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepository) UpdatePaymentStatus(tx *gorm.DB, orderID uint, status string) error {
	return tx.Model(&entity.Order{}).
		Where("id = ? AND order_status <> ?", orderID, entity.OrderCancelled).
		Update("payment_status", status).Error
}

type StoreRevenue struct {
	StoreID   uint   `json:"storeId"`
	StoreName string `json:"storeName"`
	Orders    int64  `json:"orders"`
	Revenue   int64  `json:"revenue"`
}

// RevenueByStore sums totalAmount of orders in statuses grouped by store.
func (r *OrderRepository) RevenueByStore(statuses []string) ([]StoreRevenue, error) {
	var out []StoreRevenue
	q := r.DB.Table("orders AS o").
		Select("o.store_id, s.store_name, COUNT(o.id) AS orders, COALESCE(SUM(o.total_amount), 0) AS revenue").
		Joins("JOIN stores s ON s.id = o.store_id").
		Where("o.deleted_at IS NULL")
	if len(statuses) > 0 {
		q = q.Where("o.order_status IN ?", statuses)
	}
	err := q.Group("o.store_id, s.store_name").Order("revenue DESC").Scan(&out).Error
	return out, err
}

func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		OrderStatus string
		Count       int64
	}
	if err := r.DB.Model(&entity.Order{}).Select("order_status, COUNT(*) AS count").Group("order_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.OrderStatus] = row.Count
	}
	return out, nil
}
