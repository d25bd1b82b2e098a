// Package reminder keeps care notifications in line with stored plant
// data. A Planner follows the document store's change feed and asks a
// Scheduler to (re)arm or cancel one repeating reminder per care
// dimension of every plant.
package reminder

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Scheduler arms and cancels repeating reminders. Implementations
// bridge to whatever notification facility the host platform offers.
type Scheduler interface {
	// ScheduleRepeating arms (or re-arms) the reminder identified by
	// key to fire every interval.
	ScheduleRepeating(key, title, body string, every time.Duration) error

	// Cancel disarms the reminder identified by key. Cancelling an
	// unknown key is a no-op.
	Cancel(key string) error
}

// Entry is one armed reminder as recorded by LogScheduler.
type Entry struct {
	Title string
	Body  string
	Every time.Duration
}

// LogScheduler records reminders in memory and logs transitions. It is
// the default Scheduler when no platform bridge is configured, and
// doubles as the test double.
type LogScheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]Entry
}

// NewLogScheduler creates a scheduler logging through logger.
// A nil logger disables logging but still records entries.
func NewLogScheduler(logger *slog.Logger) *LogScheduler {
	return &LogScheduler{
		logger:  logger,
		entries: make(map[string]Entry),
	}
}

// ScheduleRepeating implements Scheduler.
func (l *LogScheduler) ScheduleRepeating(key, title, body string, every time.Duration) error {
	l.mu.Lock()
	l.entries[key] = Entry{Title: title, Body: body, Every: every}
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Info("reminder armed", "key", key, "title", title, "every", every)
	}
	return nil
}

// Cancel implements Scheduler.
func (l *LogScheduler) Cancel(key string) error {
	l.mu.Lock()
	_, existed := l.entries[key]
	delete(l.entries, key)
	l.mu.Unlock()

	if existed && l.logger != nil {
		l.logger.Info("reminder cancelled", "key", key)
	}
	return nil
}

// Entry returns the recorded reminder for key, if armed.
func (l *LogScheduler) Entry(key string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	return e, ok
}

// Keys lists the armed reminder keys in sorted order.
func (l *LogScheduler) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
