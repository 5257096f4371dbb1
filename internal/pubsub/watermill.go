package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ErrNoTopic is returned when publishing a message without a topic.
var ErrNoTopic = errors.New("pubsub: message has no topic")

// Reserved metadata keys carrying Message fields across watermill.
const (
	metaKeySource = "source"
	metaKeyTopic  = "topic"
)

// WatermillBridge implements Publisher and Subscriber on watermill's
// in-memory GoChannel. Events are notifications: a failed handler is
// logged and the message acknowledged, never redelivered.
type WatermillBridge struct {
	channel *gochannel.GoChannel
}

// NewWatermillBridge creates the bus.
func NewWatermillBridge() *WatermillBridge {
	return &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		),
	}
}

func toWatermill(msg Message) *message.Message {
	out := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		out.Metadata.Set(k, v)
	}
	out.Metadata.Set(metaKeySource, msg.Source)
	out.Metadata.Set(metaKeyTopic, msg.Topic)
	return out
}

func fromWatermill(in *message.Message) Message {
	msg := Message{
		Topic:    in.Metadata.Get(metaKeyTopic),
		Source:   in.Metadata.Get(metaKeySource),
		Payload:  in.Payload,
		Metadata: make(map[string]string, len(in.Metadata)),
	}
	for k, v := range in.Metadata {
		if k == metaKeySource || k == metaKeyTopic {
			continue
		}
		msg.Metadata[k] = v
	}
	return msg
}

// Publish sends msg to every subscriber of msg.Topic.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return ErrNoTopic
	}
	out := toWatermill(msg)
	out.SetContext(ctx)
	if err := wb.channel.Publish(msg.Topic, out); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe delivers every message on topic to handler, one at a time,
// until ctx is canceled or the bus is closed.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for in := range messages {
			if err := deliver(ctx, handler, fromWatermill(in)); err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", in.UUID, "error", err)
			}
			in.Ack()
		}
		slog.Debug("Subscription ended", "topic", topic)
	}()
	return nil
}

// deliver runs handler, turning a panic into an error so one bad listener
// cannot stop the subscription loop.
func deliver(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, msg)
}

// Close shuts the bus down and ends every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}
