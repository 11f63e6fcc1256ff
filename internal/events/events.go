package events

import (
	"context"
	"encoding/json"
	"time"

	"herdview/config"
	"herdview/internal/database"
	"herdview/internal/logger"

	"github.com/valkey-io/valkey-go"
)

// Event is one message on the bus. Notices published after mutations
// travel as events so every websocket-connected client of the same user
// sees the popup.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	UserID    int            `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out over valkey pub/sub so notices reach every
// server instance.
type EventBus struct {
	client database.CacheClient
	log    logger.Logger
	cancel context.CancelFunc
	ctx    context.Context
}

func New(client database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		client: client,
		log:    logger.New("events"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "channel", channel)
	}

	ctx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()

	if err := b.client.Do(ctx,
		b.client.B().Publish().Channel(channel).Message(string(payload)).Build(),
	).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

// Subscribe blocks delivering events to handler until the bus is closed
// or the subscription fails. Run it on its own goroutine.
func (b *EventBus) Subscribe(channel string, handler func(Event)) error {
	log := b.log.Function("Subscribe")

	err := b.client.Receive(b.ctx,
		b.client.B().Subscribe().Channel(channel).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to decode event", err, "channel", channel)
				return
			}
			handler(event)
		})
	if err != nil && b.ctx.Err() == nil {
		return log.Err("subscription ended", err, "channel", channel)
	}

	return nil
}

func (b *EventBus) Close() error {
	b.cancel()
	return nil
}
