package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
)

type mockOutput struct {
	mu     sync.Mutex
	events []model.GCEvent
	closed bool
	err    error         // if set, Write returns this
	delay  time.Duration // if >0, Write sleeps first
}

func (m *mockOutput) Write(_ context.Context, event model.GCEvent) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return m.err
}

func (m *mockOutput) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *mockOutput) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func testEvent(id string) model.GCEvent {
	return model.GCEvent{
		ID:            id,
		Capacity:      model.NoCapacity,
		TotalCapacity: model.NoCapacity,
		Cause:         model.CauseAllocationFailure,
	}
}

func TestEventsFlowThroughInOrder(t *testing.T) {
	inner := &mockOutput{}
	a := New(inner, WithBufferSize(16))

	for i := 0; i < 10; i++ {
		if err := a.Write(context.Background(), testEvent(fmt.Sprint(i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if inner.eventCount() != 10 {
		t.Fatalf("got %d events, want 10", inner.eventCount())
	}
	for i, ev := range inner.events {
		if ev.ID != fmt.Sprint(i) {
			t.Fatalf("event %d has id %q, order not preserved", i, ev.ID)
		}
	}
	if !inner.closed {
		t.Fatal("inner output should be closed")
	}
}

func TestBackpressureBlocks(t *testing.T) {
	inner := &mockOutput{delay: 50 * time.Millisecond}
	a := New(inner, WithBufferSize(1))

	a.Write(context.Background(), testEvent("first"))

	done := make(chan struct{})
	go func() {
		a.Write(context.Background(), testEvent("second"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Write blocked indefinitely (expected eventual unblock via drain)")
	}

	a.Close()
}

func TestWriteHonoursContext(t *testing.T) {
	inner := &mockOutput{delay: 200 * time.Millisecond}
	a := New(inner, WithBufferSize(1))
	defer a.Close()

	// One event in flight, one queued; the third must wait.
	a.Write(context.Background(), testEvent("1"))
	a.Write(context.Background(), testEvent("2"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := a.Write(ctx, testEvent("3")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestDropOnFull(t *testing.T) {
	inner := &mockOutput{delay: 100 * time.Millisecond}
	var dropped atomic.Int64
	a := New(inner, WithBufferSize(1), WithDropOnFull(), WithOnDrop(func(model.GCEvent) {
		dropped.Add(1)
	}))

	for i := 0; i < 20; i++ {
		a.Write(context.Background(), testEvent("burst"))
	}
	a.Close()

	if inner.eventCount() == 20 {
		t.Error("expected some events to be dropped in drop-on-full mode")
	}
	if inner.eventCount() == 0 {
		t.Error("expected at least some events to be delivered")
	}
	if got := int(dropped.Load()) + inner.eventCount(); got != 20 {
		t.Errorf("delivered + dropped = %d, want 20", got)
	}
}

func TestCloseDrainsRemaining(t *testing.T) {
	inner := &mockOutput{}
	a := New(inner, WithBufferSize(100))

	for i := 0; i < 50; i++ {
		a.Write(context.Background(), testEvent("drain"))
	}
	a.Close()

	if inner.eventCount() != 50 {
		t.Errorf("after Close, got %d events, want 50 (drain incomplete)", inner.eventCount())
	}
}

func TestErrorCallbackInvoked(t *testing.T) {
	inner := &mockOutput{err: errors.New("write failed")}
	var errorCount atomic.Int64
	a := New(inner, WithBufferSize(16), WithOnError(func(err error) {
		errorCount.Add(1)
	}))

	for i := 0; i < 5; i++ {
		a.Write(context.Background(), testEvent("failing"))
	}
	a.Close()

	if errorCount.Load() != 5 {
		t.Errorf("error callback called %d times, want 5", errorCount.Load())
	}
}

func TestNoGoroutineLeakAfterClose(t *testing.T) {
	a := New(&mockOutput{}, WithBufferSize(16))

	a.Write(context.Background(), testEvent("leak-check"))
	a.Close()

	select {
	case <-a.done:
	case <-time.After(time.Second):
		t.Fatal("drain goroutine did not exit after Close")
	}
}

func TestCloseIdempotent(t *testing.T) {
	a := New(&mockOutput{}, WithBufferSize(16))

	a.Write(context.Background(), testEvent("idempotent"))

	if err := a.Close(); err != nil {
		t.Fatalf("first Close error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
}
