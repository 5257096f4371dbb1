// Package cache holds the tagged read-through cache used for content reads
// and the per-render request memo.
package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const refreshTimeout = 30 * time.Second

// Loader produces a fresh value for a cache key.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	value     any
	tags      []string
	fetchedAt time.Time
	stale     bool

	refreshing bool
}

// Store is a process-wide tagged cache. Reads go through Get; Invalidate
// marks every entry carrying a tag stale. Stale entries keep being served
// while a single background refresh replaces them.
type Store struct {
	life Life
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	epochs  map[string]uint64 // bumped by every Invalidate, even with no entries
	group   singleflight.Group
	wg      sync.WaitGroup
}

// NewStore returns an empty store using life.
func NewStore(life Life) *Store {
	return &Store{
		life:    life,
		now:     time.Now,
		entries: make(map[string]*entry),
		epochs:  make(map[string]uint64),
	}
}

// Life returns the store's lifetime profile.
func (s *Store) Life() Life {
	return s.life
}

// Get returns the cached value for key, loading it on a miss. Concurrent
// misses for one key share a single load. Load errors are returned to the
// caller and nothing is cached.
func (s *Store) Get(ctx context.Context, key string, tags []string, load Loader) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		age := s.now().Sub(e.fetchedAt)
		if age < s.life.Expire {
			value := e.value
			if (e.stale || age >= s.life.Revalidate) && !e.refreshing {
				e.refreshing = true
				s.refreshLocked(ctx, key, tags, load, e)
			}
			s.mu.Unlock()
			return value, nil
		}
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		snap := s.epochsLocked(tags)
		s.mu.Unlock()
		return s.load(ctx, key, tags, load, snap)
	})
	return v, err
}

// refreshLocked starts one background refresh for key. The refresh is
// detached from the request that noticed the stale entry.
func (s *Store) refreshLocked(ctx context.Context, key string, tags []string, load Loader, e *entry) {
	snap := s.epochsLocked(tags)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		_, err, _ := s.group.Do(key, func() (any, error) {
			return s.load(bg, key, tags, load, snap)
		})
		if err != nil {
			slog.Warn("Background cache refresh failed, serving stale", "key", key, "error", err)
			s.mu.Lock()
			e.refreshing = false
			s.mu.Unlock()
		}
	}()
}

// load runs the loader and stores its value. snap holds the epochs of tags
// taken before loading; if any moved, the value may predate the change.
func (s *Store) load(ctx context.Context, key string, tags []string, load Loader, snap []uint64) (any, error) {
	value, err := load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{
		value:     value,
		tags:      append([]string(nil), tags...),
		fetchedAt: s.now(),
		// invalidated while loading: keep serving it but refresh again
		stale: !slices.Equal(snap, s.epochsLocked(tags)),
	}
	return value, nil
}

func (s *Store) epochsLocked(tags []string) []uint64 {
	out := make([]uint64, len(tags))
	for i, t := range tags {
		out[i] = s.epochs[t]
	}
	return out
}

// Invalidate marks every fresh entry carrying one of tags stale and returns
// how many entries changed. Loads of those tags already in flight store
// their result stale.
func (s *Store) Invalidate(tags ...string) int {
	if len(tags) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range want {
		s.epochs[t]++
	}
	n := 0
	for _, e := range s.entries {
		if !hasAny(e.tags, want) {
			continue
		}
		if !e.stale {
			e.stale = true
			n++
		}
	}
	return n
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Wait blocks until background refreshes have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

func hasAny(tags []string, want map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := want[t]; ok {
			return true
		}
	}
	return false
}
