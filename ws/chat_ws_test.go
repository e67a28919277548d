package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

type allowRoom struct{ room uint }

func (a allowRoom) CanAccess(_ services.Actor, roomID uint) error {
	if roomID != a.room {
		return services.ErrForbidden
	}
	return nil
}

func newTestServer(t *testing.T, hub *ChatHub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/chat/:roomId", func(c *gin.Context) {
		c.Set("userId", uint(1))
		c.Set("role", entity.RoleCustomer)
	}, hub.Handler(allowRoom{room: 7}))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHubFansOutToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewChatHub()
	go hub.Run(ctx)

	srv := newTestServer(t, hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/7"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// registration is asynchronous; publish until the socket receives
	deadline := time.Now().Add(2 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	got := make(chan entity.ChatMessage, 1)
	go func() {
		var m entity.ChatMessage
		if err := conn.ReadJSON(&m); err == nil {
			got <- m
		}
	}()
	for {
		if err := hub.Publish(ctx, 7, &entity.ChatMessage{RoomID: 7, SenderID: 2, Body: "on my way"}); err != nil {
			t.Fatal(err)
		}
		select {
		case m := <-got:
			if m.Body != "on my way" || m.RoomID != 7 {
				t.Fatalf("message = %+v", m)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no message received")
		}
	}
}

func TestHandlerRejectsForeignRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewChatHub()
	go hub.Run(ctx)

	srv := newTestServer(t, hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/8"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if res == nil || res.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v", res)
	}
}

func TestPublishAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewChatHub()
	stopped := make(chan struct{})
	go func() { hub.Run(ctx); close(stopped) }()
	cancel()
	<-stopped

	// fill the buffer; once full only the done channel can be selected
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- BroadcastMessage{}
	}
	if err := hub.Publish(context.Background(), 1, &entity.ChatMessage{}); err != ErrHubStopped {
		t.Fatalf("err = %v", err)
	}
}

func TestRoomChannel(t *testing.T) {
	ch := RoomChannel(42)
	if ch != "chat:room:42" {
		t.Fatalf("channel = %q", ch)
	}
	if id, ok := roomFromChannel(ch); !ok || id != 42 {
		t.Fatalf("roomFromChannel = %d, %v", id, ok)
	}
	if _, ok := roomFromChannel("other:1"); ok {
		t.Fatal("foreign channel accepted")
	}
}
