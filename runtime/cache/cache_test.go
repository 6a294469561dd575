package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Resolve_SingleFlight(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	compute := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return 42.0, nil
	}

	const waiters = 16
	values := make([]interface{}, waiters)
	errs := make([]error, waiters)
	wg := sync.WaitGroup{}
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func(i int) {
			defer wg.Done()
			values[i], _, errs[i] = c.Resolve(context.Background(), "f1", compute)
		}(i)
	}
	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 42.0, values[i])
	}

	value, hit, err := c.Resolve(context.Background(), "f1", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42.0, value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_Resolve_DistinctKeysConcurrent(t *testing.T) {
	c := New()
	var running, peak int32
	barrier := make(chan struct{})
	compute := func(ctx context.Context) (interface{}, error) {
		current := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
				break
			}
		}
		<-barrier
		atomic.AddInt32(&running, -1)
		return "ok", nil
	}
	wg := sync.WaitGroup{}
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, _, _ = c.Resolve(context.Background(), key, compute)
		}(key)
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&running) == 3 }, time.Second, time.Millisecond)
	close(barrier)
	wg.Wait()
	assert.Equal(t, int32(3), peak)
	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())
}

func TestCache_Resolve_ErrorNotStored(t *testing.T) {
	c := New()
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("unavailable")
		}
		return "ok", nil
	}
	_, _, err := c.Resolve(context.Background(), "f1", compute)
	require.Error(t, err)
	_, ok := c.Get("f1")
	assert.False(t, ok)

	value, hit, err := c.Resolve(context.Background(), "f1", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "ok", value)
	assert.Equal(t, int32(2), calls)
}

func TestCache_Resolve_NilValueStored(t *testing.T) {
	c := New()
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}
	for i := 0; i < 3; i++ {
		value, _, err := c.Resolve(context.Background(), "f1", compute)
		require.NoError(t, err)
		assert.Nil(t, value)
	}
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Resolve_Cancellation(t *testing.T) {
	c := New()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	var computeErr atomic.Value
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			computeErr.Store(err)
		}
		return "done", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, _, err := c.Resolve(ctx, "f1", compute)
		result <- err
	}()
	<-started

	patient := make(chan interface{}, 1)
	go func() {
		value, _, _ := c.Resolve(context.Background(), "f1", compute)
		patient <- value
	}()
	require.Eventually(t, func() bool { return c.waiting("f1") == 2 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)
	_, ok := c.Get("f1")
	assert.False(t, ok, "cancelled waiter must not resolve the key")

	close(release)
	assert.Equal(t, "done", <-patient)
	assert.Nil(t, computeErr.Load())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	value, hit, err := c.Resolve(context.Background(), "f1", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "done", value)
}

func TestCache_Resolve_Abandoned(t *testing.T) {
	c := New()
	started := make(chan struct{})
	stopped := make(chan error, 1)
	compute := func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		stopped <- ctx.Err()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, _, err := c.Resolve(ctx, "f1", compute)
		result <- err
	}()
	<-started
	cancel()

	assert.ErrorIs(t, <-result, context.Canceled)
	select {
	case err := <-stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("computation kept running without waiters")
	}
	_, ok := c.Get("f1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.waiting("f1"))

	value, hit, err := c.Resolve(context.Background(), "f1", func(ctx context.Context) (interface{}, error) {
		return "again", nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "again", value)
}
