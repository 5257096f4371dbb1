// Package pubsub is the in-process event bus. Content revalidations and
// completed uploads are published here so that any number of listeners
// can react without the HTTP handlers knowing about them.
package pubsub

import (
	"context"
)

// Message is one event on the bus.
type Message struct {
	Topic   string
	Source  string // component that published it, e.g. "revalidation"
	Payload []byte // JSON encoded
	// Metadata travels with the message. The keys "topic" and "source" are
	// reserved.
	Metadata map[string]string
}

// Handler processes one delivered message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages. Services that only emit events depend on this.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Subscriber registers handlers. Subscribe returns once the subscription
// is active; delivery stops when ctx is canceled or the bus closes.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
}

// Bus is a closable Publisher and Subscriber.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

var _ Bus = (*WatermillBridge)(nil)
