package revalidate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/revalidation"
	"github.com/nfrund/portfolio/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec-test"

// recordingInvalidator records every invalidation.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingInvalidator) Invalidate(tags ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tags)
	return len(tags)
}

func (r *recordingInvalidator) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func setup(t *testing.T, inv revalidation.Invalidator, opts ...revalidation.Option) *echo.Echo {
	t.Helper()
	m := New(Dependencies{Revalidator: revalidation.NewService(inv, opts...), Secret: secret})
	reg := registry.New(&config.Config{})
	require.NoError(t, m.Register(reg))

	e := echo.New()
	require.NoError(t, m.Boot(context.Background(), e.Group(m.Prefix()), reg))
	return e
}

func post(e *echo.Echo, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signed(e *echo.Echo, body string) *httptest.ResponseRecorder {
	return post(e, body, webhook.Sign([]byte(body), secret, time.Now()))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRevalidate_InvalidSignature(t *testing.T) {
	inv := &recordingInvalidator{}
	e := setup(t, inv)
	body := `{"_type":"testimonial","_id":"t1"}`

	t.Run("missing header", func(t *testing.T) {
		rec := post(e, body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid signature", decode(t, rec)["error"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := post(e, body, webhook.Sign([]byte(body), "other", time.Now()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := webhook.Sign([]byte(body), secret, time.Now())
		rec := post(e, `{"_type":"company","_id":"t1"}`, sig)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.Empty(t, inv.Calls(), "no invalidation on auth failure")
}

func TestRevalidate_MissingType(t *testing.T) {
	inv := &recordingInvalidator{}
	e := setup(t, inv)

	rec := signed(e, `{"_id":"t1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing document type", decode(t, rec)["error"])
	assert.Empty(t, inv.Calls())
}

func TestRevalidate_UnmappedKind(t *testing.T) {
	inv := &recordingInvalidator{}
	e := setup(t, inv)

	rec := signed(e, `{"_type":"post","_id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, false, out["revalidated"])
	assert.Equal(t, "No cache tags configured for type: post", out["message"])
	assert.NotZero(t, out["now"])
	assert.Empty(t, inv.Calls())
}

func TestRevalidate_MappedKinds(t *testing.T) {
	tests := []struct {
		kind string
		tags []any
	}{
		{kind: "testimonial", tags: []any{"testimonials"}},
		{kind: "company", tags: []any{"companies"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			inv := &recordingInvalidator{}
			e := setup(t, inv)

			rec := signed(e, `{"_type":"`+tt.kind+`","_id":"doc-1"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			out := decode(t, rec)
			assert.Equal(t, true, out["revalidated"])
			assert.Equal(t, tt.tags, out["tags"])
			assert.Equal(t, tt.kind, out["documentType"])
			assert.Equal(t, "doc-1", out["documentId"])
			assert.NotZero(t, out["now"])
			require.Len(t, inv.Calls(), 1)
		})
	}
}

func TestRevalidate_StaleWhileRevalidate(t *testing.T) {
	store := cache.NewStore(cache.Days)
	e := setup(t, store)

	calls := 0
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return "v1", nil
		}
		<-release
		return "v2", nil
	}

	v, err := store.Get(context.Background(), "testimonials", cache.TagsFor(domain.KindTestimonial), load)
	require.NoError(t, err)
	require.Equal(t, "v1", v)

	rec := signed(e, `{"_type":"testimonial","_id":"t1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Served stale while the refresh is blocked.
	v, err = store.Get(context.Background(), "testimonials", cache.TagsFor(domain.KindTestimonial), load)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	close(release)
	store.Wait()

	v, err = store.Get(context.Background(), "testimonials", cache.TagsFor(domain.KindTestimonial), load)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestRevalidate_CancelledDuringDelay(t *testing.T) {
	inv := &recordingInvalidator{}
	e := setup(t, inv, revalidation.WithDelay(time.Hour))

	body := `{"_type":"company","_id":"c1"}`
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(body), secret, time.Now()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, inv.Calls())
}

func TestBoot_RequiresSecret(t *testing.T) {
	m := New(Dependencies{Revalidator: revalidation.NewService(&recordingInvalidator{})})
	err := m.Boot(context.Background(), echo.New().Group("/api"), registry.New(&config.Config{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingConfig))
	assert.Contains(t, err.Error(), config.KeyWebhookSecret)
}
