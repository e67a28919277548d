package services

import (
	"context"
	"io"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/pushnoti"
)

// Collaborators outside the database. Production wiring happens in main; tests use fakes.

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type PushSender interface {
	Send(ctx context.Context, msgs []pushnoti.Message) (*pushnoti.Result, error)
}

type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, req payos.PaymentRequest) (*payos.CheckoutData, error)
	VerifyWebhook(w *payos.Webhook) error
	GetPaymentLink(ctx context.Context, id string) (*payos.PaymentLink, error)
}

type ObjectStorage interface {
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error)
	Remove(ctx context.Context, objectURL string) error
}

// RoomPublisher fans a persisted chat message out to the room's live sockets.
type RoomPublisher interface {
	Publish(ctx context.Context, roomID uint, msg *entity.ChatMessage) error
}

// OrderStatusEvent describes an order status change after it was committed.
type OrderStatusEvent struct {
	OrderID       uint   `json:"orderId"`
	UserID        uint   `json:"userId"`
	StoreID       uint   `json:"storeId"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

type StatusNotifier interface {
	NotifyOrderStatus(ctx context.Context, ev OrderStatusEvent) error
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint
	Role   string
}
