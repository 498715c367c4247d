package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryTask(t *testing.T) {
	pool := New(4, 8)

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() { count.Add(1) }))
	}
	pool.Shutdown()

	assert.Equal(t, int64(100), count.Load())
}

func TestPool_Full(t *testing.T) {
	pool := New(1, 1)
	t.Cleanup(pool.Shutdown)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolFull)

	close(release)
}

func TestPool_SubmitWaitHonoursContext(t *testing.T) {
	pool := New(1, 1)
	t.Cleanup(pool.Shutdown)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, pool.Submit(func() {}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.SubmitWait(ctx, func() {}), context.DeadlineExceeded)

	close(release)
}

func TestPool_ClosedAndIdempotentShutdown(t *testing.T) {
	pool := New(2, 0)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() {}), ErrPoolClosed)
}

func TestPool_SurvivesPanics(t *testing.T) {
	pool := New(1, 4)

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(func() { panic("boom") }))
	require.NoError(t, pool.Submit(wg.Done))

	wg.Wait()
	pool.Shutdown()
}
