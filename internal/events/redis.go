package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings. A nil client and an error are returned when Redis is unreachable.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// RedisPublisher publishes events as JSON on a channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// Subscribe forwards events from channel to sink until ctx is done.
// Malformed payloads are logged and skipped.
func Subscribe(ctx context.Context, client *redis.Client, channel string, sink Sink) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	// wait for the subscription confirmation so no publish is missed after return
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", channel, err)
	}
	logger.Info("subscribed to todo events", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("skipping malformed todo event", "channel", channel, "error", err)
				continue
			}
			sink.Broadcast(ev)
		}
	}
}
