package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"sync"
	"time"
)

const defaultChannel = "lifemate:changes"

// RedisFeed carries changes between API instances over Redis pub/sub.
// Writes publish to Redis only; Run forwards every message, own ones
// included, to the local hub.
type RedisFeed struct {
	client  *redis.Client
	channel string
	hub     *Hub

	ready     chan struct{}
	readyOnce sync.Once
}

func NewRedisFeed(redisURL string, hub *Hub) (*RedisFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisFeedWithClient(client, hub), nil
}

func NewRedisFeedWithClient(client *redis.Client, hub *Hub) *RedisFeed {
	return &RedisFeed{
		client:  client,
		channel: defaultChannel,
		hub:     hub,
		ready:   make(chan struct{}),
	}
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Run listens until ctx is cancelled.
func (f *RedisFeed) Run(ctx context.Context) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", f.channel, err)
	}
	f.readyOnce.Do(func() { close(f.ready) })

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				log.Warnf("dropping malformed change message: %v", err)
				continue
			}
			f.hub.Dispatch(change)
		}
	}
}

// Ready is closed once Run is subscribed.
func (f *RedisFeed) Ready() <-chan struct{} {
	return f.ready
}

func (f *RedisFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

func (f *RedisFeed) Close() error {
	return f.client.Close()
}
