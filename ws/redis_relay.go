package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
)

const roomChannelPrefix = "chat:room:"

// RedisRelay publishes chat messages on Redis so every instance's hub
// delivers them to its own sockets.
type RedisRelay struct {
	rdb *redis.Client
	hub *ChatHub
}

func NewRedisRelay(rdb *redis.Client, hub *ChatHub) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub}
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func RoomChannel(roomID uint) string {
	return roomChannelPrefix + strconv.FormatUint(uint64(roomID), 10)
}

func roomFromChannel(ch string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(ch, roomChannelPrefix), 10, 64)
	if err != nil || !strings.HasPrefix(ch, roomChannelPrefix) {
		return 0, false
	}
	return uint(id), true
}

func (r *RedisRelay) Publish(ctx context.Context, roomID uint, msg *entity.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, RoomChannel(roomID), data).Err()
}

// Run forwards relayed messages to the local hub until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.rdb.PSubscribe(ctx, roomChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe chat rooms: %w", err)
	}
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			roomID, ok := roomFromChannel(m.Channel)
			if !ok {
				continue
			}
			var msg entity.ChatMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				logger.Warn("invalid relayed chat message", "channel", m.Channel, "err", err)
				continue
			}
			if err := r.hub.Publish(ctx, roomID, &msg); err != nil {
				return nil
			}
		}
	}
}
