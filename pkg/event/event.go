// Package event provides an in-process publish/subscribe bus for domain
// events such as "user.registered" and "order.checked_out".
//
// Listeners registered with Listen run inline, in order, before Fire
// returns. Listeners registered with ListenAsync run on the bus's worker
// pool (or a fresh goroutine when none is set) with a context that outlives
// the request.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/lojinha/pkg/logger"
	"github.com/shashiranjanraj/lojinha/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

type listener struct {
	h     Handler
	async bool
}

// Bus holds listeners by event name. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]listener
	pool     *workerpool.Pool
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]listener{}}
}

// UsePool routes async listeners through p. The bus does not own p.
func (b *Bus) UsePool(p *workerpool.Pool) {
	b.mu.Lock()
	b.pool = p
	b.mu.Unlock()
}

// Listen registers a synchronous handler.
func (b *Bus) Listen(event string, h Handler) {
	b.add(event, listener{h: h})
}

// ListenAsync registers a handler that runs off the caller's goroutine.
func (b *Bus) ListenAsync(event string, h Handler) {
	b.add(event, listener{h: h, async: true})
}

func (b *Bus) add(event string, l listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]listener{}
	}
	b.handlers[event] = append(b.handlers[event], l)
}

// Fire dispatches payload. A panicking listener is logged and skipped so the
// caller's request still completes.
func (b *Bus) Fire(ctx context.Context, event string, payload interface{}) {
	ls, pool := b.listeners(event)
	for _, l := range ls {
		if l.async {
			b.dispatch(ctx, pool, event, l.h, payload)
			continue
		}
		b.call(ctx, event, l.h, payload)
	}
}

// FireAsync runs every listener, sync or not, off the caller's goroutine.
func (b *Bus) FireAsync(ctx context.Context, event string, payload interface{}) {
	ls, pool := b.listeners(event)
	for _, l := range ls {
		b.dispatch(ctx, pool, event, l.h, payload)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]listener{}
}

func (b *Bus) listeners(event string) ([]listener, *workerpool.Pool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ls := make([]listener, len(b.handlers[event]))
	copy(ls, b.handlers[event])
	return ls, b.pool
}

func (b *Bus) dispatch(ctx context.Context, pool *workerpool.Pool, event string, h Handler, payload interface{}) {
	ctx = context.WithoutCancel(ctx)
	task := func() { b.call(ctx, event, h, payload) }

	if pool == nil {
		go task()
		return
	}
	if err := pool.Submit(task); err != nil {
		if errors.Is(err, workerpool.ErrPoolFull) {
			logger.WithCtx(ctx).Warn("event dropped, worker pool full", "event", event)
			return
		}
		logger.WithCtx(ctx).Warn("event dropped", "event", event, "error", err)
	}
}

func (b *Bus) call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", r)
		}
	}()
	h(ctx, payload)
}
