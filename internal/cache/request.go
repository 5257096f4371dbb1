package cache

import (
	"context"
	"fmt"
	"sync"
)

// Request memoizes reads for the duration of one render pass. Repeated
// reads of the same key share one in-flight call. A nil *Request disables
// memoization.
type Request struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	once  sync.Once
	value any
	err   error
}

// NewRequest returns an empty memo.
func NewRequest() *Request {
	return &Request{calls: make(map[string]*call)}
}

// Do runs fn once per key and returns its result to every caller.
func (r *Request) Do(key string, fn func() (any, error)) (any, error) {
	if r == nil {
		return fn()
	}

	r.mu.Lock()
	c, ok := r.calls[key]
	if !ok {
		c = &call{}
		r.calls[key] = c
	}
	r.mu.Unlock()

	c.once.Do(func() {
		c.value, c.err = fn()
	})
	return c.value, c.err
}

// Fetch reads key through the request memo and then the store, loading
// with load on a miss. Either layer may be nil.
func Fetch[T any](ctx context.Context, req *Request, store *Store, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	v, err := req.Do(key, func() (any, error) {
		if store == nil {
			return load(ctx)
		}
		return store.Get(ctx, key, tags, func(ctx context.Context) (any, error) {
			return load(ctx)
		})
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T", key, v)
	}
	return typed, nil
}
