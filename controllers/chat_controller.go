package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type ChatController struct {
	service *services.ChatService
}

func NewChatController(s *services.ChatService) *ChatController {
	return &ChatController{s}
}

// GET /chat/rooms
func (h *ChatController) ListRooms(c *gin.Context) {
	rooms, err := h.service.GetRoomsByUser(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rooms)
}

// GET /chat/orders/:orderId/room
func (h *ChatController) RoomByOrder(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	room, err := h.service.GetRoomByOrder(actorOf(c), orderID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, room)
}

// GET /chat/rooms/:roomId/messages
func (h *ChatController) GetMessages(c *gin.Context) {
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	msgs, err := h.service.GetMessages(actorOf(c), roomID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, msgs)
}

// POST /chat/rooms/:roomId/messages
func (h *ChatController) SendMessage(c *gin.Context) {
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	var in services.SendMessageIn
	if !bind(c, &in) {
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), actorOf(c), roomID, in.Body)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, msg)
}
