// Package cache memoizes field results for one orchestrator with single-flight
// semantics: concurrent requests for the same key share one computation.
package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Compute produces a value for a key
type Compute func(ctx context.Context) (interface{}, error)

// flight tracks callers waiting on one computation
type flight struct {
	key     string
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Cache represents a write-once per key result cache. Only successful
// computations are stored; a nil value is a valid, stored result.
type Cache struct {
	mux     sync.Mutex
	values  map[string]interface{}
	flights map[string]*flight
	seq     int
	group   singleflight.Group
}

// New creates an empty cache
func New() *Cache {
	return &Cache{values: make(map[string]interface{}), flights: make(map[string]*flight)}
}

// Get returns a stored value
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	value, ok := c.values[key]
	return value, ok
}

// Resolve returns the stored value for key, or joins the in-flight computation
// for key, or starts compute. The lock is never held while compute runs.
//
// compute runs detached from the cancellation of any single caller, so the
// remaining waiters still get the value. Its context is cancelled once every
// waiter has left; a waiter whose ctx is done returns ctx.Err() without
// storing anything. hit reports whether the value was already stored.
func (c *Cache) Resolve(ctx context.Context, key string, compute Compute) (value interface{}, hit bool, err error) {
	f, value, hit := c.join(ctx, key)
	if hit {
		return value, true, nil
	}
	defer c.leave(f)
	ch := c.group.DoChan(f.id, func() (interface{}, error) {
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := compute(f.ctx)
		if err != nil {
			return nil, err
		}
		c.mux.Lock()
		defer c.mux.Unlock()
		if stored, ok := c.values[key]; ok {
			return stored, nil
		}
		c.values[key] = value
		return value, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case result := <-ch:
		return result.Val, false, result.Err
	}
}

// join returns the stored value, or registers the caller on the current flight for key
func (c *Cache) join(ctx context.Context, key string) (*flight, interface{}, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if value, ok := c.values[key]; ok {
		return nil, value, true
	}
	f, ok := c.flights[key]
	if !ok {
		c.seq++
		computeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{key: key, id: key + "#" + strconv.Itoa(c.seq), ctx: computeCtx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	return f, nil, false
}

func (c *Cache) leave(f *flight) {
	c.mux.Lock()
	defer c.mux.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[f.key] == f {
		delete(c.flights, f.key)
	}
}

// waiting returns the number of callers waiting on key
func (c *Cache) waiting(key string) int {
	c.mux.Lock()
	defer c.mux.Unlock()
	if f, ok := c.flights[key]; ok {
		return f.waiters
	}
	return 0
}

// Len returns number of stored values
func (c *Cache) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.values)
}

// Keys returns sorted stored keys
func (c *Cache) Keys() []string {
	c.mux.Lock()
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	c.mux.Unlock()
	sort.Strings(keys)
	return keys
}
