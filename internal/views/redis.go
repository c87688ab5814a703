package views

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher sends every key as one message on a pub/sub channel so
// renderers running in other processes can drop their cached pages.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish pipelines one PUBLISH per key.
func (p *RedisPublisher) Publish(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := p.client.Pipeline()
	for _, k := range keys {
		pipe.Publish(ctx, p.channel, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish views: %w", err)
	}
	return nil
}

// Subscribe calls fn for every key received on the channel until ctx ends.
// It returns once the subscription is confirmed and delivers in the
// background.
func (p *RedisPublisher) Subscribe(ctx context.Context, fn func(key string)) error {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe views: %w", err)
	}
	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(msg.Payload)
			}
		}
	}()
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
