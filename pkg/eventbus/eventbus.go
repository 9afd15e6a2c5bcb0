package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// Event is the envelope published on the bus
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Handler processes one event
type Handler func(ctx context.Context, event *Event) error

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, subject string, event *Event) error
}

// NewEvent builds an event with a fresh id and encoded payload
func NewEvent(eventType, source string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Bus publishes and subscribes to events over NATS
type Bus struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs []*nats.Subscription
}

// Connect opens a NATS connection
func Connect(url, name string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("eventbus: disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("eventbus: reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Bus{conn: conn}, nil
}

// Publish sends the event on subject
func (b *Bus) Publish(ctx context.Context, subject string, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers handler for subject. Subscribers sharing a queue name split the load.
func (b *Bus) Subscribe(ctx context.Context, subject, queue string, handler Handler) error {
	sub, err := b.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		if err := Dispatch(ctx, msg.Data, handler); err != nil {
			logger.Warn("eventbus: handler failed",
				zap.String("subject", msg.Subject),
				zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

// Dispatch decodes a raw message and hands it to handler
func Dispatch(ctx context.Context, data []byte, handler Handler) error {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return handler(ctx, &event)
}

// Ping flushes the connection to confirm the server is reachable
func (b *Bus) Ping(ctx context.Context) error {
	return b.conn.FlushWithContext(ctx)
}

// Close drains subscriptions and closes the connection
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}

// Notify builds and publishes an event, logging rather than returning failures.
// A nil publisher is a no-op.
func Notify(ctx context.Context, pub Publisher, subject, source string, data interface{}) {
	if pub == nil {
		return
	}
	event, err := NewEvent(subject, source, data)
	if err != nil {
		logger.WithContext(ctx).Warn("eventbus: failed to build event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := pub.Publish(ctx, subject, event); err != nil {
		logger.WithContext(ctx).Warn("eventbus: failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
