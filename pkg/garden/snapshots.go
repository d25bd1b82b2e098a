package garden

import (
	"context"

	"github.com/growmygarden/verdant/pkg/core"
)

// Plants returns a live, ordered view of the stored plants. An initial
// snapshot is delivered immediately, then a fresh snapshot after every
// committed store change. Delivery is conflated per subscriber: a slow
// consumer sees the newest snapshot, never a backlog of stale ones.
//
// The channel closes when ctx is cancelled or the repository stops.
// The returned slices must not be mutated by consumers.
func (r *Repository) Plants(ctx context.Context) (<-chan []core.Plant, error) {
	initial, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []core.Plant, 1)
	ch <- initial

	r.mu.Lock()
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

	return ch, nil
}

// Subscribers reports the number of active live views.
func (r *Repository) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// pump turns store change events into snapshot broadcasts. Bursts of
// events already queued are drained before recomputing, so one storm of
// writes costs one List instead of one per event.
func (r *Repository) pump(ctx context.Context, events <-chan core.Event) error {
	defer r.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			r.drainEvents(events)
			if err := r.broadcast(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.fail("snapshot", err)
			}
		}
	}
}

func (r *Repository) drainEvents(events <-chan core.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (r *Repository) broadcast(ctx context.Context) error {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		deliver(ch, snap)
	}
	return nil
}

// deliver replaces whatever snapshot a subscriber has not consumed yet.
func deliver(ch chan []core.Plant, snap []core.Plant) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func (r *Repository) closeSubscribers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}
