package events

import "context"

const (
	TopicUser  = "user_events"
	TopicCart  = "cart_events"
	TopicOrder = "order_events"
)

// Publisher emits domain events. Handlers treat publish failures as
// log-only: an event must never fail the request that produced it.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]any) error
	Close() error
}

// Nop discards events; used in tests and when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic, key string, event map[string]any) error {
	return nil
}

func (Nop) Close() error { return nil }
