package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Event binds a topic to its payload type.
type Event[T any] struct {
	Topic       string
	Description string
}

// NewEvent declares a typed event.
func NewEvent[T any](topic, description string) Event[T] {
	return Event[T]{Topic: topic, Description: description}
}

// Publish encodes payload as JSON and publishes it on the event's topic.
func (e Event[T]) Publish(ctx context.Context, pub Publisher, source string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Topic, err)
	}
	return pub.Publish(ctx, Message{Topic: e.Topic, Source: source, Payload: data})
}

// Subscribe decodes every message on the event's topic before calling fn.
func (e Event[T]) Subscribe(ctx context.Context, sub Subscriber, fn func(ctx context.Context, payload T) error) error {
	return sub.Subscribe(ctx, e.Topic, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", e.Topic, err)
		}
		return fn(ctx, payload)
	})
}

// ContentRevalidatedPayload describes one processed change notification.
type ContentRevalidatedPayload struct {
	DocumentType string    `json:"documentType"`
	DocumentID   string    `json:"documentId,omitempty"`
	Tags         []string  `json:"tags"`
	Invalidated  int       `json:"invalidated"`
	At           time.Time `json:"at"`
}

// UploadCompletedPayload describes a finished direct upload.
type UploadCompletedPayload struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Token       string `json:"tokenPayload,omitempty"`
}

// Events published by the application.
var (
	ContentRevalidated = NewEvent[ContentRevalidatedPayload]("content.revalidated", "cache tags invalidated after a content change")
	UploadCompleted    = NewEvent[UploadCompletedPayload]("upload.completed", "a direct blob upload finished")
)

// LogEvents subscribes a logger to every application event.
func LogEvents(ctx context.Context, sub Subscriber) error {
	if err := ContentRevalidated.Subscribe(ctx, sub, func(ctx context.Context, p ContentRevalidatedPayload) error {
		slog.Info("Content revalidated", "type", p.DocumentType, "id", p.DocumentID, "tags", p.Tags, "invalidated", p.Invalidated)
		return nil
	}); err != nil {
		return err
	}
	return UploadCompleted.Subscribe(ctx, sub, func(ctx context.Context, p UploadCompletedPayload) error {
		slog.Info("Blob upload completed", "url", p.URL, "pathname", p.Pathname, "content_type", p.ContentType)
		return nil
	})
}
