package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_RoundTrip(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bus.Subscribe(ctx, "content.revalidated", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, Message{
		Topic:    "content.revalidated",
		Source:   "test",
		Payload:  []byte(`{"ok":true}`),
		Metadata: map[string]string{"request_id": "r1"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "content.revalidated", msg.Topic)
		assert.Equal(t, "test", msg.Source)
		assert.JSONEq(t, `{"ok":true}`, string(msg.Payload))
		assert.Equal(t, "r1", msg.Metadata["request_id"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestEvent_TypedPayload(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan ContentRevalidatedPayload, 1)
	require.NoError(t, ContentRevalidated.Subscribe(ctx, bus, func(ctx context.Context, p ContentRevalidatedPayload) error {
		got <- p
		return nil
	}))

	require.NoError(t, ContentRevalidated.Publish(ctx, bus, "revalidation", ContentRevalidatedPayload{
		DocumentType: "company",
		DocumentID:   "c1",
		Tags:         []string{"companies"},
		Invalidated:  1,
	}))

	select {
	case p := <-got:
		assert.Equal(t, "company", p.DocumentType)
		assert.Equal(t, []string{"companies"}, p.Tags)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestLogEvents_Subscribes(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, LogEvents(ctx, bus))
	assert.NoError(t, UploadCompleted.Publish(ctx, bus, "upload", UploadCompletedPayload{URL: "https://x/a.png"}))
}

func TestWatermillBridge_FailingHandlerIsNotRedelivered(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan string, 10)
	require.NoError(t, bus.Subscribe(ctx, "upload.completed", func(ctx context.Context, msg Message) error {
		calls <- string(msg.Payload)
		switch string(msg.Payload) {
		case "fail":
			return assert.AnError
		case "panic":
			panic("listener bug")
		}
		return nil
	}))

	for _, p := range []string{"fail", "panic", "ok"} {
		require.NoError(t, bus.Publish(ctx, Message{Topic: "upload.completed", Payload: []byte(p)}))
	}

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case p := <-calls:
			got = append(got, p)
		case <-timeout:
			t.Fatalf("delivered %v", got)
		}
	}
	assert.Equal(t, []string{"fail", "panic", "ok"}, got)

	select {
	case p := <-calls:
		t.Fatalf("unexpected redelivery of %q", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatermillBridge_PublishWithoutTopic(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	err := bus.Publish(context.Background(), Message{Payload: []byte("x")})
	assert.ErrorIs(t, err, ErrNoTopic)
}
