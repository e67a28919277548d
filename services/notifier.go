package services

import (
	"context"
	"fmt"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/pushnoti"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

// PushStatusNotifier sends an Expo push to the order's customer.
type PushStatusNotifier struct {
	Users *repository.UserRepository
	Push  PushSender
}

func NewPushStatusNotifier(users *repository.UserRepository, push PushSender) *PushStatusNotifier {
	return &PushStatusNotifier{Users: users, Push: push}
}

func (n *PushStatusNotifier) NotifyOrderStatus(ctx context.Context, ev OrderStatusEvent) error {
	user, err := n.Users.FindByID(ev.UserID)
	if err != nil {
		return err
	}
	if user.ExpoPushToken == "" {
		return nil
	}
	msg := pushnoti.Message{
		To:    user.ExpoPushToken,
		Title: "Order update",
		Body:  fmt.Sprintf("Your order #%d is now %s", ev.OrderID, ev.OrderStatus),
		Data: map[string]any{
			"orderId":     ev.OrderID,
			"orderStatus": ev.OrderStatus,
		},
	}
	_, err = n.Push.Send(ctx, []pushnoti.Message{msg})
	return err
}
