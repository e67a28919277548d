package repository

import (
	"github.com/QuangMinh07/BE-NOM-sub000/entity"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateRoom(tx *gorm.DB, orderID uint) (*entity.ChatRoom, error) {
	room := &entity.ChatRoom{OrderID: orderID}
	if err := tx.Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *ChatRepository) FindRoom(roomID uint) (*entity.ChatRoom, error) {
	var room entity.ChatRoom
	if err := r.DB.Preload("Order").First(&room, roomID).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *ChatRepository) FindRoomByOrder(orderID uint) (*entity.ChatRoom, error) {
	var room entity.ChatRoom
	if err := r.DB.Where("order_id = ?", orderID).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindRoomsForUser returns rooms of orders the user placed, ships, or sells.
func (r *ChatRepository) FindRoomsForUser(userID uint) ([]entity.ChatRoom, error) {
	var rooms []entity.ChatRoom
	orders := r.DB.Table("orders").Select("orders.id").
		Joins("JOIN stores ON stores.id = orders.store_id").
		Where("orders.user_id = ? OR orders.shipper_id = ? OR stores.user_id = ?", userID, userID, userID)
	err := r.DB.Preload("Order").
		Where("order_id IN (?)", orders).
		Order("id DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *ChatRepository) FindMessagesByRoom(roomID uint) ([]entity.ChatMessage, error) {
	var msgs []entity.ChatMessage
	err := r.DB.Where("room_id = ?", roomID).Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

func (r *ChatRepository) CreateMessage(msg *entity.ChatMessage) error {
	return r.DB.Omit("Sender").Create(msg).Error
}

// DeleteRoomByOrder hard-deletes the order's room and all its messages.
func (r *ChatRepository) DeleteRoomByOrder(tx *gorm.DB, orderID uint) error {
	rooms := tx.Model(&entity.ChatRoom{}).Select("id").Where("order_id = ?", orderID)
	if err := tx.Unscoped().Where("room_id IN (?)", rooms).Delete(&entity.ChatMessage{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("order_id = ?", orderID).Delete(&entity.ChatRoom{}).Error
}
