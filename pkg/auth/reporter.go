package auth

import (
	"context"
	"sync"
)

// Reporter fans a status value out to subscribers with conflated
// delivery: each subscriber holds at most the newest unread status, so
// a burst of failed attempts never queues up behind a slow UI.
type Reporter struct {
	mu     sync.Mutex
	last   Status
	subs   map[int]chan Status
	nextID int
}

// NewReporter creates a reporter with initial as the current status.
func NewReporter(initial Status) *Reporter {
	return &Reporter{
		last: initial,
		subs: make(map[int]chan Status),
	}
}

// Publish records status as current and offers it to every subscriber,
// replacing any unread previous value.
func (r *Reporter) Publish(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = status
	for _, ch := range r.subs {
		offer(ch, status)
	}
}

// Last returns the most recently published status.
func (r *Reporter) Last() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Statuses subscribes to the stream. The current status is delivered
// immediately; the channel closes when ctx is cancelled.
func (r *Reporter) Statuses(ctx context.Context) <-chan Status {
	ch := make(chan Status, 1)

	r.mu.Lock()
	ch <- r.last
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		if _, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(ch)
		}
		r.mu.Unlock()
	}()

	return ch
}

func offer(ch chan Status, status Status) {
	for {
		select {
		case ch <- status:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
