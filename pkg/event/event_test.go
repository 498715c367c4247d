package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lojinha/pkg/workerpool"
)

func TestFire_RunsListenersInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Listen("user.registered", func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	b.Listen("user.registered", func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })
	b.Listen("other", func(_ context.Context, _ interface{}) { got = append(got, "other") })

	b.Fire(context.Background(), "user.registered", "ana")

	assert.Equal(t, []string{"a:ana", "b:ana"}, got)
}

func TestFire_PanickingListenerIsSkipped(t *testing.T) {
	var b Bus
	called := false

	b.Listen("x", func(context.Context, interface{}) { panic("boom") })
	b.Listen("x", func(context.Context, interface{}) { called = true })

	assert.NotPanics(t, func() { b.Fire(context.Background(), "x", nil) })
	assert.True(t, called)
}

func TestFireAsync(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	wg.Add(2)

	b.Listen("order.checked_out", func(context.Context, interface{}) { wg.Done() })
	b.Listen("order.checked_out", func(context.Context, interface{}) { wg.Done() })

	ctx, cancel := context.WithCancel(context.Background())
	b.FireAsync(ctx, "order.checked_out", nil)
	cancel()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async listeners did not run")
	}
}

func TestFlush(t *testing.T) {
	b := NewBus()
	called := false
	b.Listen("x", func(context.Context, interface{}) { called = true })

	b.Flush()
	b.Fire(context.Background(), "x", nil)

	assert.False(t, called)
}

func TestListenAsync_RunsOnPool(t *testing.T) {
	pool := workerpool.New(2, 4)
	b := NewBus()
	b.UsePool(pool)

	var mu sync.Mutex
	var got []string
	b.Listen("order.checked_out", func(context.Context, interface{}) {
		mu.Lock()
		got = append(got, "sync")
		mu.Unlock()
	})
	b.ListenAsync("order.checked_out", func(context.Context, interface{}) {
		mu.Lock()
		got = append(got, "async")
		mu.Unlock()
	})

	b.Fire(context.Background(), "order.checked_out", nil)

	mu.Lock()
	require.Contains(t, got, "sync")
	mu.Unlock()

	pool.Shutdown()
	assert.ElementsMatch(t, []string{"sync", "async"}, got)
}

func TestListenAsync_DroppedWhenPoolClosed(t *testing.T) {
	pool := workerpool.New(1, 1)
	pool.Shutdown()

	b := NewBus()
	b.UsePool(pool)
	called := false
	b.ListenAsync("x", func(context.Context, interface{}) { called = true })

	assert.NotPanics(t, func() { b.Fire(context.Background(), "x", nil) })
	assert.False(t, called)
}
