package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) {
		if n > 0 {
			a.bufSize = n
		}
	}
}

// WithDrainTimeout bounds how long Close waits for queued events.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithOnDrop sets the callback invoked for each event dropped on a full buffer.
func WithOnDrop(f func(model.GCEvent)) Option {
	return func(a *Async) { a.dropFunc = f }
}

// WithDropOnFull makes Write return immediately (dropping the event) when the
// buffer is full, instead of blocking.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async decouples event production from a slow output via a buffered
// channel drained by one goroutine, so per-output ordering is kept.
// Errors from the inner output go to errFunc, not to the caller.
type Async struct {
	inner        output.Output
	ch           chan model.GCEvent
	done         chan struct{}
	errFunc      func(error)
	dropFunc     func(model.GCEvent)
	bufSize      int
	drainTimeout time.Duration
	dropOnFull   bool
	closeOnce    sync.Once
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.GCEvent, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write queues the event. It blocks while the buffer is full unless
// WithDropOnFull is set, and returns ctx.Err() if ctx ends first.
func (a *Async) Write(ctx context.Context, event model.GCEvent) error {
	if a.dropOnFull {
		select {
		case a.ch <- event:
		default:
			slog.Warn("async output buffer full, dropping event",
				"id", event.ID, "phase", event.Phase, "cause", event.Cause)
			if a.dropFunc != nil {
				a.dropFunc(event)
			}
		}
		return nil
	}
	select {
	case a.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, waits for the queue to drain (bounded by
// the drain timeout) and closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(a.drainTimeout):
			slog.Warn("async output drain timed out", "pending", len(a.ch))
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for event := range a.ch {
		if err := a.inner.Write(context.Background(), event); err != nil {
			a.errFunc(err)
		}
	}
}
