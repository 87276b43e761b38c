// Package notifications delivers realtime events to websocket clients, fanning
// out across instances through Redis pub/sub.
package notifications

import (
	"context"
	"log/slog"
	"runtime/debug"

	"pawcircle/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel carries events meant for every connected client.
const BroadcastChannel = "notifications:broadcast"

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events travel through Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishBroadcast sends a notification payload to all connected clients on every
// instance and returns how many subscribers received it.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) (int64, error) {
	if !n.Enabled() {
		return 0, nil
	}
	return n.rdb.Publish(ctx, BroadcastChannel, payload).Result()
}

// StartBroadcastSubscriber subscribes to the broadcast channel and calls onMessage
// for each payload until ctx is done. onStop, if set, runs when the subscription ends.
func (n *Notifier) StartBroadcastSubscriber(ctx context.Context, onMessage func(payload string), onStop func()) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BroadcastChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()

	go func() {
		defer func() {
			_ = sub.Close()
			if onStop != nil {
				onStop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in broadcast subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
