package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

const (
	Exchange    = "order.events"
	NotifyQueue = "order.notify"
	bindingKey  = "order.status.*"
)

var ErrNack = errors.New("publish NACK from broker")

// RoutingKey is the topic key of a status change, for example order.status.delivered.
func RoutingKey(status string) string {
	return "order.status." + strings.ToLower(status)
}

// confirmation is the broker's pending answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type confirmingPublisher interface {
	publish(ctx context.Context, key string, msg amqp.Publishing) (confirmation, error)
}

// channelPublisher publishes on a channel in confirm mode.
type channelPublisher struct {
	ch *amqp.Channel
}

func (p channelPublisher) publish(ctx context.Context, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, Exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

// Client holds one connection with a confirming publish channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	pub  confirmingPublisher
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch, pub: channelPublisher{ch: ch}}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// NotifyOrderStatus publishes ev and waits for the broker confirm of that
// publish. A confirm still outstanding when ctx ends is dropped with it.
func (c *Client) NotifyOrderStatus(ctx context.Context, ev services.OrderStatusEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	conf, err := c.pub.publish(ctx, RoutingKey(ev.OrderStatus), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNack
	}
	return nil
}

// Consume delivers status events from the notify queue to next until ctx is
// cancelled. A handler failure is logged and the delivery is not requeued.
func (c *Client) Consume(ctx context.Context, next services.StatusNotifier) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(NotifyQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(NotifyQueue, bindingKey, Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return err
	}
	msgs, err := ch.Consume(NotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("order events channel closed")
			}
			handle(ctx, next, d)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handle(ctx context.Context, next services.StatusNotifier, d amqp.Delivery) {
	process(ctx, next, d.Body, d.RoutingKey, &d)
}

func process(ctx context.Context, next services.StatusNotifier, body []byte, key string, ack acknowledger) {
	var ev services.OrderStatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logger.Warn("invalid order event", "routing_key", key, "err", err)
		_ = ack.Nack(false, false)
		return
	}
	if err := next.NotifyOrderStatus(ctx, ev); err != nil {
		logger.Warn("order event handler failed", "order_id", ev.OrderID, "status", ev.OrderStatus, "err", err)
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
