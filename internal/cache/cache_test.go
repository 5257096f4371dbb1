package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nfrund/portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsFor(t *testing.T) {
	assert.Equal(t, []string{"testimonials"}, TagsFor(domain.KindTestimonial))
	assert.Equal(t, []string{"companies"}, TagsFor(domain.KindCompany))
	assert.Nil(t, TagsFor("post"))

	tags := TagsFor(domain.KindCompany)
	tags[0] = "mutated"
	assert.Equal(t, []string{"companies"}, TagsFor(domain.KindCompany))

	assert.ElementsMatch(t, []string{"companies", "testimonials"}, AllTags())
}

func TestLife_CacheControl(t *testing.T) {
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate=518400", Days.CacheControl())
}

func counter(n *atomic.Int32, value string) Loader {
	return func(context.Context) (any, error) {
		n.Add(1)
		return value, nil
	}
}

func TestStore_ReadThrough(t *testing.T) {
	s := NewStore(Days)
	ctx := context.Background()
	var calls atomic.Int32

	v, err := s.Get(ctx, "companies", []string{TagCompanies}, counter(&calls, "v1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = s.Get(ctx, "companies", []string{TagCompanies}, counter(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_ErrorsAreNotCached(t *testing.T) {
	s := NewStore(Days)
	boom := errors.New("upstream down")

	_, err := s.Get(context.Background(), "k", nil, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Len())
}

func TestStore_InvalidateServesStaleThenRefreshes(t *testing.T) {
	s := NewStore(Days)
	ctx := context.Background()
	var calls atomic.Int32

	_, err := s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "old"))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Invalidate(TagTestimonials))
	assert.Equal(t, 0, s.Invalidate(TagTestimonials), "second invalidation is a no-op")
	assert.Equal(t, 0, s.Invalidate(TagCompanies), "unrelated tag touches nothing")

	v, err := s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "new"))
	require.NoError(t, err)
	assert.Equal(t, "old", v, "stale value is served while refreshing")

	s.Wait()
	v, err = s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "newer"))
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, int32(2), calls.Load())
}

// blockingLoader signals started once it runs and returns value after release.
func blockingLoader(started chan<- struct{}, release <-chan struct{}, value string) Loader {
	return func(context.Context) (any, error) {
		close(started)
		<-release
		return value, nil
	}
}

func TestStore_InvalidateDuringFirstFill(t *testing.T) {
	s := NewStore(Days)
	ctx := context.Background()
	started, release := make(chan struct{}), make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, err := s.Get(ctx, "companies", []string{TagCompanies}, blockingLoader(started, release, "pre-change"))
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	assert.Equal(t, 0, s.Invalidate(TagCompanies), "nothing cached yet")
	close(release)
	assert.Equal(t, "pre-change", <-done)

	var calls atomic.Int32
	v, err := s.Get(ctx, "companies", []string{TagCompanies}, counter(&calls, "post-change"))
	require.NoError(t, err)
	assert.Equal(t, "pre-change", v, "the racing fill is served stale")

	s.Wait()
	v, err = s.Get(ctx, "companies", []string{TagCompanies}, counter(&calls, "later"))
	require.NoError(t, err)
	assert.Equal(t, "post-change", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_InvalidateDuringBackgroundRefresh(t *testing.T) {
	s := NewStore(Days)
	ctx := context.Background()
	var calls atomic.Int32

	_, err := s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "v1"))
	require.NoError(t, err)
	require.Equal(t, 1, s.Invalidate(TagTestimonials))

	started, release := make(chan struct{}), make(chan struct{})
	v, err := s.Get(ctx, "testimonials", []string{TagTestimonials}, blockingLoader(started, release, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	<-started
	s.Invalidate(TagTestimonials)
	close(release)
	s.Wait()

	// v2 was loaded before the second change, so it is stored stale.
	v, err = s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "v3"))
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	s.Wait()
	v, err = s.Get(ctx, "testimonials", []string{TagTestimonials}, counter(&calls, "v4"))
	require.NoError(t, err)
	assert.Equal(t, "v3", v)
}

func TestStore_ExpiredEntriesBlock(t *testing.T) {
	s := NewStore(Life{Revalidate: time.Minute, Expire: time.Hour})
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()
	var calls atomic.Int32

	_, err := s.Get(ctx, "k", nil, counter(&calls, "a"))
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	v, err := s.Get(ctx, "k", nil, counter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestStore_ConcurrentMissesShareOneLoad(t *testing.T) {
	s := NewStore(Days)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Get(context.Background(), "k", nil, load)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestRequest_Memoizes(t *testing.T) {
	req := NewRequest()
	var calls atomic.Int32
	fn := func() (any, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := req.Do("companies", fn)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, int32(1), calls.Load())

	var nilReq *Request
	_, _ = nilReq.Do("companies", fn)
	_, _ = nilReq.Do("companies", fn)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_Typed(t *testing.T) {
	ctx := context.Background()
	req := NewRequest()
	store := NewStore(Days)
	var calls atomic.Int32

	load := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"Acme"}, nil
	}

	got, err := Fetch(ctx, req, store, "companies", []string{TagCompanies}, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, got)

	got, err = Fetch(ctx, nil, store, "companies", []string{TagCompanies}, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, got)
	assert.Equal(t, int32(1), calls.Load())

	_, err = Fetch(ctx, nil, store, "companies", nil, func(context.Context) (int, error) { return 0, nil })
	assert.Error(t, err, "type mismatch on a shared key is reported")
}
