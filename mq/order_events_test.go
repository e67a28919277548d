package mq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

type recordAck struct{ acked, nacked int }

func (r *recordAck) Ack(bool) error        { r.acked++; return nil }
func (r *recordAck) Nack(bool, bool) error { r.nacked++; return nil }

type recordNotifier struct {
	events []services.OrderStatusEvent
	err    error
}

func (r *recordNotifier) NotifyOrderStatus(_ context.Context, ev services.OrderStatusEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestRoutingKey(t *testing.T) {
	if got := RoutingKey("Delivered"); got != "order.status.delivered" {
		t.Fatalf("RoutingKey = %q", got)
	}
}

func TestProcessAcksHandledEvent(t *testing.T) {
	n := &recordNotifier{}
	ack := &recordAck{}
	process(context.Background(), n, []byte(`{"orderId":3,"userId":9,"orderStatus":"Shipped"}`), "order.status.shipped", ack)

	if ack.acked != 1 || ack.nacked != 0 {
		t.Fatalf("ack = %+v", ack)
	}
	if len(n.events) != 1 || n.events[0].OrderID != 3 || n.events[0].UserID != 9 {
		t.Fatalf("events = %+v", n.events)
	}
}

func TestProcessDropsBadEvents(t *testing.T) {
	ack := &recordAck{}
	process(context.Background(), &recordNotifier{}, []byte("nope"), "order.status.x", ack)
	if ack.nacked != 1 {
		t.Fatalf("malformed body: ack = %+v", ack)
	}

	ack = &recordAck{}
	process(context.Background(), &recordNotifier{err: errors.New("expo down")}, []byte(`{"orderId":1}`), "order.status.x", ack)
	if ack.nacked != 1 || ack.acked != 0 {
		t.Fatalf("handler failure: ack = %+v", ack)
	}
}

// heldConfirm answers only once release is closed.
type heldConfirm struct {
	ack     bool
	release chan struct{}
}

func (h *heldConfirm) WaitContext(ctx context.Context) (bool, error) {
	select {
	case <-h.release:
		return h.ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type queuedPublisher struct {
	keys    []string
	confirm []*heldConfirm
}

func (p *queuedPublisher) publish(_ context.Context, key string, _ amqp.Publishing) (confirmation, error) {
	p.keys = append(p.keys, key)
	c := p.confirm[0]
	p.confirm = p.confirm[1:]
	return c, nil
}

func TestNotifyOrderStatusWaitsForItsOwnConfirm(t *testing.T) {
	late := &heldConfirm{ack: true, release: make(chan struct{})}
	nacked := &heldConfirm{ack: false, release: make(chan struct{})}
	close(nacked.release)
	pub := &queuedPublisher{confirm: []*heldConfirm{late, nacked}}
	c := &Client{pub: pub}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.NotifyOrderStatus(ctx, services.OrderStatusEvent{OrderID: 1, OrderStatus: "Processing"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled publish err = %v", err)
	}
	// The first confirm arrives after its caller gave up.
	close(late.release)

	err := c.NotifyOrderStatus(context.Background(), services.OrderStatusEvent{OrderID: 2, OrderStatus: "Shipped"})
	if !errors.Is(err, ErrNack) {
		t.Fatalf("second publish err = %v; want ErrNack", err)
	}
	if len(pub.keys) != 2 || pub.keys[1] != "order.status.shipped" {
		t.Fatalf("keys = %v", pub.keys)
	}
}
