// Package mailbox provides a conflated single-slot value holder.
//
// A mailbox holds at most one pending value: putting a new value while
// one is pending silently replaces it (newest wins). This is the
// backpressure policy behind the debounced write pipelines — bursts of
// rapid saves must collapse to the latest state, never queue up.
package mailbox

import "sync"

// Mailbox is a guarded single-slot holder with a notify primitive.
// Put never blocks; consumers select on Ready and drain with Take.
type Mailbox[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
	ready chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Put stores v, replacing any still-pending value, and signals Ready.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.value = v
	m.full = true
	m.mu.Unlock()

	// Non-blocking: one pending signal is enough, the consumer always
	// reads the latest value.
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Take atomically removes and returns the pending value, if any.
func (m *Mailbox[T]) Take() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if !m.full {
		return zero, false
	}
	v := m.value
	m.value = zero
	m.full = false
	return v, true
}

// Ready signals that a value has been put since the last consumption.
func (m *Mailbox[T]) Ready() <-chan struct{} {
	return m.ready
}

// Pending reports whether a value is waiting.
func (m *Mailbox[T]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.full
}
