// Package broker fans document change events out to live-query
// subscribers. Delivery is buffered and non-blocking: a subscriber that
// falls far behind loses intermediate events, which is acceptable
// because consumers recompute a full snapshot per event anyway.
package broker

import (
	"context"
	"sync"

	"github.com/growmygarden/verdant/pkg/core"
)

// Broker is a many-subscriber event fanout.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan core.Event
	next   int
	buffer int
	closed bool
}

// New creates a broker; buffer sizes each subscriber channel (min 16).
func New(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{
		subs:   make(map[int]chan core.Event),
		buffer: buffer,
	}
}

// Subscribe registers a new event channel, removed when ctx is done.
func (b *Broker) Subscribe(ctx context.Context) (<-chan core.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, core.ErrClosed
	}

	id := b.next
	b.next++
	ch := make(chan core.Event, b.buffer)
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}()

	return ch, nil
}

// Publish delivers e to all subscribers without blocking the writer.
func (b *Broker) Publish(e core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Subscriber buffer full; drop. The next event still
			// triggers a full snapshot recompute downstream.
		}
	}
}

// Close closes all subscriber channels and rejects new subscriptions.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Count reports the number of active subscribers.
func (b *Broker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
