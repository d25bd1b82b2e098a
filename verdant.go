package verdant

import (
	"context"
	"log/slog"
	"time"

	"github.com/growmygarden/verdant/internal/platform"
	"github.com/growmygarden/verdant/pkg/auth"
	"github.com/growmygarden/verdant/pkg/core"
	"github.com/growmygarden/verdant/pkg/reminder"
)

// --- Types ---

// Garden is the assembled application core. See Open.
type Garden = platform.Garden

// Plant is the domain model for one tracked plant.
type Plant = core.Plant

// ImageRef is an opaque handle to a stored plant photo.
type ImageRef = core.ImageRef

// Event is one change observed in the document store.
type Event = core.Event

// --- Configuration ---

// Option defines a functional option for opening a Garden.
type Option = platform.Option

// WithStore injects a custom document store implementation.
func WithStore(store core.DocumentStore) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSession injects an existing auth session.
func WithSession(session *auth.Session) Option {
	return platform.WithSession(session)
}

// WithScheduler injects the platform notification bridge.
func WithScheduler(sched reminder.Scheduler) Option {
	return platform.WithScheduler(sched)
}

// WithReminders enables or disables the reminder planner.
func WithReminders(enabled bool) Option {
	return platform.WithReminders(enabled)
}

// WithErrorHandler registers a callback for background persistence
// failures. Saves are fire-and-forget; this is where their errors go.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithDebounce overrides the plant save debounce window.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithImageDebounce overrides the image save debounce window.
func WithImageDebounce(d time.Duration) Option {
	return platform.WithImageDebounce(d)
}

// WithEventBuffer sizes the per-subscriber event channels of the store.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatchExternal enables the filesystem watcher so edits made
// outside the app surface in the live view ("fs" adapter only).
func WithWatchExternal(enabled bool) Option {
	return platform.WithWatchExternal(enabled)
}

// --- Factory ---

// Open assembles and starts a Garden rooted at dataDir.
func Open(ctx context.Context, dataDir string, opts ...Option) (*Garden, error) {
	return platform.Open(ctx, dataDir, opts...)
}

// --- Domain helpers ---

// NewPlant creates a plant with a fresh identifier.
func NewPlant(name string) Plant {
	return core.NewPlant(name)
}
