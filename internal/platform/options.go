package platform

import (
	"log/slog"
	"time"

	"github.com/growmygarden/verdant/pkg/auth"
	"github.com/growmygarden/verdant/pkg/core"
	"github.com/growmygarden/verdant/pkg/reminder"
)

// options holds the internal configuration for a Garden.
type options struct {
	store         core.DocumentStore
	adapter       string
	logger        *slog.Logger
	session       *auth.Session
	scheduler     reminder.Scheduler
	errorHandler  func(error)
	debounce      time.Duration
	imageDebounce time.Duration
	eventBuffer   int
	watchExternal bool
	reminders     bool
}

// Option defines a functional option for opening a Garden.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   "fs",
		reminders: true,
	}
}

// WithStore injects a custom document store. If provided, the adapter
// selection is skipped.
func WithStore(store core.DocumentStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSession injects an existing auth session.
func WithSession(session *auth.Session) Option {
	return func(o *options) {
		o.session = session
	}
}

// WithScheduler injects the platform notification bridge. Defaults to
// a log-only scheduler.
func WithScheduler(sched reminder.Scheduler) Option {
	return func(o *options) {
		o.scheduler = sched
	}
}

// WithReminders enables or disables the reminder planner entirely.
func WithReminders(enabled bool) Option {
	return func(o *options) {
		o.reminders = enabled
	}
}

// WithErrorHandler registers a callback for background persistence
// failures from the plant repository and the image store.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithDebounce overrides the plant save debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithImageDebounce overrides the image save debounce window.
func WithImageDebounce(d time.Duration) Option {
	return func(o *options) {
		o.imageDebounce = d
	}
}

// WithEventBuffer sizes the per-subscriber event channels of the store.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatchExternal enables the filesystem watcher so edits made
// outside the app surface in the live view. Only meaningful for the
// "fs" adapter.
func WithWatchExternal(enabled bool) Option {
	return func(o *options) {
		o.watchExternal = enabled
	}
}
