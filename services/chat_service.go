package services

import (
	"context"
	"strings"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type ChatService struct {
	repo      *repository.ChatRepository
	orders    *repository.OrderRepository
	stores    *repository.StoreRepository
	publisher RoomPublisher
}

func NewChatService(repo *repository.ChatRepository, orders *repository.OrderRepository, stores *repository.StoreRepository, publisher RoomPublisher) *ChatService {
	return &ChatService{repo: repo, orders: orders, stores: stores, publisher: publisher}
}

type SendMessageIn struct {
	Body string `json:"body" binding:"required"`
}

func (s *ChatService) GetRoomsByUser(userID uint) ([]entity.ChatRoom, error) {
	return s.repo.FindRoomsForUser(userID)
}

func (s *ChatService) GetRoomByOrder(actor Actor, orderID uint) (*entity.ChatRoom, error) {
	room, err := s.repo.FindRoomByOrder(orderID)
	if err != nil {
		return nil, dbErr(err, "chat room")
	}
	if err := s.CanAccess(actor, room.ID); err != nil {
		return nil, err
	}
	return room, nil
}

// CanAccess reports whether actor takes part in the room's order: its
// customer, its shipper, the store owner, or an admin.
func (s *ChatService) CanAccess(actor Actor, roomID uint) error {
	room, err := s.repo.FindRoom(roomID)
	if err != nil {
		return dbErr(err, "chat room")
	}
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	order, err := s.orders.FindByID(s.orders.DB, room.OrderID)
	if err != nil {
		return dbErr(err, "order")
	}
	if order.UserID == actor.UserID || (order.ShipperID != nil && *order.ShipperID == actor.UserID) {
		return nil
	}
	owned, err := s.stores.IsOwnedBy(order.StoreID, actor.UserID)
	if err != nil {
		return err
	}
	if owned {
		return nil
	}
	return forbidden("not a participant of room %d", roomID)
}

func (s *ChatService) GetMessages(actor Actor, roomID uint) ([]entity.ChatMessage, error) {
	if err := s.CanAccess(actor, roomID); err != nil {
		return nil, err
	}
	return s.repo.FindMessagesByRoom(roomID)
}

// SendMessage persists the message, then fans it out to live sockets.
// A failed fan-out is logged; the stored message is still returned.
func (s *ChatService) SendMessage(ctx context.Context, actor Actor, roomID uint, body string) (*entity.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("message body is empty")
	}
	if err := s.CanAccess(actor, roomID); err != nil {
		return nil, err
	}
	msg := &entity.ChatMessage{
		RoomID:   roomID,
		SenderID: actor.UserID,
		Body:     body,
	}
	if err := s.repo.CreateMessage(msg); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, roomID, msg); err != nil {
			logger.WarnContext(ctx, "chat publish failed", "room_id", roomID, "err", err)
		}
	}
	return msg, nil
}
