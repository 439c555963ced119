package hierarchy

import (
	"context"
	"sync"
)

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) Publish(context.Context, Event) {}

// BufferedSink holds events until Flush. Services use it inside a
// transaction so notifications only go out after commit.
type BufferedSink struct {
	mu     sync.Mutex
	events []Event
}

func (b *BufferedSink) Publish(_ context.Context, e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

// Events returns a copy of the buffered events in publish order.
func (b *BufferedSink) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Flush forwards buffered events to target and empties the buffer.
func (b *BufferedSink) Flush(ctx context.Context, target Sink) {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	if target == nil {
		return
	}
	for _, e := range events {
		target.Publish(ctx, e)
	}
}

// Discard drops buffered events, e.g. after a rollback.
func (b *BufferedSink) Discard() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}
