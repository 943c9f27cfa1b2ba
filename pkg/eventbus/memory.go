package eventbus

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBus is an in-process Bus. Each lane is an unbounded FIFO queue, so
// Send never blocks on a slow receiver.
// The bus is thread-safe and can be used concurrently from multiple goroutines.
type MemoryBus struct {
	ideas    *lane
	packages *lane
	done     chan struct{}
	once     sync.Once
	counters
}

// NewMemoryBus creates an empty bus. Close must be called to release its goroutines.
func NewMemoryBus() *MemoryBus {
	done := make(chan struct{})
	return &MemoryBus{
		ideas:    newLane(done),
		packages: newLane(done),
		done:     done,
	}
}

// Send validates ev and appends it to its lane.
func (b *MemoryBus) Send(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	l := b.ideas
	if ev.Kind.Lane() == LanePackages {
		l = b.packages
	}
	if err := l.send(ctx, ev); err != nil {
		return err
	}

	b.record(ev.Kind)
	return nil
}

// ReceiveIdea blocks until an idea lane event is available.
func (b *MemoryBus) ReceiveIdea(ctx context.Context) (Event, error) {
	return b.ideas.receive(ctx)
}

// ReceivePackage blocks until a package lane event is available.
func (b *MemoryBus) ReceivePackage(ctx context.Context) (Event, error) {
	return b.packages.receive(ctx)
}

// Stats returns the number of events sent so far.
func (b *MemoryBus) Stats() Stats {
	return b.snapshot()
}

// Close stops both lanes. Pending events are discarded and blocked callers
// return ErrClosed. Close is idempotent.
func (b *MemoryBus) Close() error {
	b.once.Do(func() { close(b.done) })
	return nil
}

// lane bridges an unbuffered input channel to an unbuffered output channel
// through a growable buffer owned by a single pump goroutine.
type lane struct {
	in   chan Event
	out  chan Event
	done <-chan struct{}
}

func newLane(done <-chan struct{}) *lane {
	l := &lane{
		in:   make(chan Event),
		out:  make(chan Event),
		done: done,
	}
	go l.pump()
	return l
}

func (l *lane) pump() {
	var buf []Event
	for {
		// a nil channel disables the send case while the buffer is empty
		var out chan Event
		var next Event
		if len(buf) > 0 {
			out = l.out
			next = buf[0]
		}

		select {
		case ev := <-l.in:
			buf = append(buf, ev)
		case out <- next:
			buf[0] = Event{}
			buf = buf[1:]
		case <-l.done:
			return
		}
	}
}

func (l *lane) send(ctx context.Context, ev Event) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.in <- ev:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) receive(ctx context.Context) (Event, error) {
	select {
	case ev := <-l.out:
		return ev, nil
	case <-l.done:
		return Event{}, ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}
