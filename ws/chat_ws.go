package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/resp"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var ErrHubStopped = errors.New("chat hub stopped")

// ChatHub fans chat messages out to the sockets joined to each room.
// Messages are created over REST; sockets only receive.
type ChatHub struct {
	clients    map[uint]map[*websocket.Conn]bool // roomID -> set of sockets
	broadcast  chan BroadcastMessage
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
}

type Subscription struct {
	Conn   *websocket.Conn
	RoomID uint
	UserID uint
}

type BroadcastMessage struct {
	RoomID  uint
	Message *entity.ChatMessage
}

// RoomAccess decides whether an actor may join a room.
type RoomAccess interface {
	CanAccess(actor services.Actor, roomID uint) error
}

func NewChatHub() *ChatHub {
	return &ChatHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan BroadcastMessage, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
	}
}

// Run owns the room registry until ctx is cancelled, then closes every socket.
func (h *ChatHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = map[uint]map[*websocket.Conn]bool{}
			return

		case sub := <-h.register:
			if h.clients[sub.RoomID] == nil {
				h.clients[sub.RoomID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.RoomID][sub.Conn] = true

		case sub := <-h.unregister:
			if _, ok := h.clients[sub.RoomID][sub.Conn]; ok {
				delete(h.clients[sub.RoomID], sub.Conn)
				sub.Conn.Close()
				if len(h.clients[sub.RoomID]) == 0 {
					delete(h.clients, sub.RoomID)
				}
			}

		case msg := <-h.broadcast:
			for conn := range h.clients[msg.RoomID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg.Message); err != nil {
					logger.Warn("ws write failed", "room_id", msg.RoomID, "err", err)
					conn.Close()
					delete(h.clients[msg.RoomID], conn)
				}
			}
		}
	}
}

// Publish delivers msg to the sockets of this instance.
func (h *ChatHub) Publish(ctx context.Context, roomID uint, msg *entity.ChatMessage) error {
	select {
	case h.broadcast <- BroadcastMessage{RoomID: roomID, Message: msg}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RoomSize is the number of sockets joined to roomID. It is only safe once Run has returned.
func (h *ChatHub) RoomSize(roomID uint) int {
	return len(h.clients[roomID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves /ws/chat/:roomId for authenticated participants of the room.
func (h *ChatHub) Handler(access RoomAccess) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := utils.ParamUint(c, "roomId")
		if !ok {
			resp.BadRequest(c, "invalid room id")
			return
		}
		actor := services.Actor{UserID: utils.CurrentUserID(c), Role: utils.CurrentRole(c)}
		if err := access.CanAccess(actor, roomID); err != nil {
			resp.Error(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "room_id", roomID, "err", err)
			return
		}

		sub := Subscription{Conn: conn, RoomID: roomID, UserID: actor.UserID}
		select {
		case h.register <- sub:
		case <-h.done:
			conn.Close()
			return
		}
		go h.keepAlive(sub)
		go h.readPump(sub)
	}
}

// readPump drains client frames so control messages are handled, and
// unregisters the socket when it closes.
func (h *ChatHub) readPump(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	sub.Conn.SetReadLimit(4096)
	_ = sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		return sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read failed", "room_id", sub.RoomID, "user_id", sub.UserID, "err", err)
			}
			return
		}
	}
}

func (h *ChatHub) keepAlive(sub Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := sub.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-h.done:
			return
		}
	}
}
