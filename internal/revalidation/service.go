// Package revalidation maps changed documents to cache tags and invalidates
// them.
package revalidation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/pubsub"
)

// Invalidator marks cached entries stale by tag.
type Invalidator interface {
	Invalidate(tags ...string) int
}

// Result is the outcome of one revalidation, shaped for the webhook reply.
type Result struct {
	Revalidated  bool     `json:"revalidated"`
	Message      string   `json:"message,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DocumentType string   `json:"documentType,omitempty"`
	DocumentID   string   `json:"documentId,omitempty"`
	Now          int64    `json:"now"`

	// Invalidated counts entries that went stale; not part of the reply.
	Invalidated int `json:"-"`
}

// Service performs revalidations.
type Service struct {
	store Invalidator
	pub   pubsub.Publisher
	delay time.Duration
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDelay waits d before invalidating so that the content lake's read
// replicas have caught up with the change.
func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithPublisher announces every revalidation on the event bus.
func WithPublisher(pub pubsub.Publisher) Option {
	return func(s *Service) { s.pub = pub }
}

// NewService returns a Service invalidating store.
func NewService(store Invalidator, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revalidate invalidates the tags mapped to docType. A kind without tags is
// not an error: the result reports it and nothing is invalidated.
func (s *Service) Revalidate(ctx context.Context, docType domain.Kind, docID string) (Result, error) {
	if docType == "" {
		return Result{}, domain.ErrMissingDocumentType
	}

	tags := cache.TagsFor(docType)
	if len(tags) == 0 {
		return Result{
			Revalidated: false,
			Message:     fmt.Sprintf("No cache tags configured for type: %s", docType),
			Now:         s.now().UnixMilli(),
		}, nil
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	n := s.store.Invalidate(tags...)
	now := s.now()
	s.publish(ctx, pubsub.ContentRevalidatedPayload{
		DocumentType: docType.String(),
		DocumentID:   docID,
		Tags:         tags,
		Invalidated:  n,
		At:           now,
	})

	return Result{
		Revalidated:  true,
		Tags:         tags,
		DocumentType: docType.String(),
		DocumentID:   docID,
		Now:          now.UnixMilli(),
		Invalidated:  n,
	}, nil
}

// RevalidateAll invalidates every mapped kind, e.g. after the local dataset
// changed on disk.
func (s *Service) RevalidateAll(ctx context.Context) int {
	total := 0
	for _, kind := range domain.Kinds() {
		tags := cache.TagsFor(kind)
		n := s.store.Invalidate(tags...)
		total += n
		s.publish(ctx, pubsub.ContentRevalidatedPayload{
			DocumentType: kind.String(),
			Tags:         tags,
			Invalidated:  n,
			At:           s.now(),
		})
	}
	return total
}

func (s *Service) publish(ctx context.Context, p pubsub.ContentRevalidatedPayload) {
	if s.pub == nil {
		return
	}
	if err := pubsub.ContentRevalidated.Publish(ctx, s.pub, "revalidation", p); err != nil {
		slog.Warn("Failed to publish revalidation event", "type", p.DocumentType, "error", err)
	}
}
