// Package images persists plant photos as an HQ/LQ pair: the uploaded
// bytes verbatim, plus a derived thumbnail for list views. Saves go
// through the same conflated mailbox and trailing debounce discipline
// as plant documents, so re-picking a photo several times in a row
// costs one write.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"golang.org/x/sync/errgroup"

	"github.com/growmygarden/verdant/internal/mailbox"
	"github.com/growmygarden/verdant/pkg/adapters/fs"
	"github.com/growmygarden/verdant/pkg/core"
)

const (
	// DefaultDebounce is the quiet period before a pending image pair
	// is written. Images are larger than documents, so the window is
	// wider than the plant repository's.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultMaxEdge caps either dimension of the derived thumbnail.
	DefaultMaxEdge = 400

	// DefaultWriteAttempts bounds the retries for the HQ/LQ pair write
	// before the store gives up and removes any partial output.
	DefaultWriteAttempts = 3
)

// Option configures a Store.
type Option func(*Store)

// WithDebounce overrides the write debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithErrorHandler registers a callback for persistence failures.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) {
		s.errorHandler = fn
	}
}

// WithMaxEdge overrides the thumbnail size bound.
func WithMaxEdge(edge int) Option {
	return func(s *Store) {
		if edge > 0 {
			s.maxEdge = edge
		}
	}
}

// WithWriteAttempts overrides how often a failed pair write is retried.
func WithWriteAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// pending is one enqueued image awaiting its debounce window.
type pending struct {
	ref  core.ImageRef
	data []byte
}

// Store writes plant images beneath a root directory. At most one image
// is pending at a time; a newer Save replaces an unflushed older one.
type Store struct {
	root         string
	logger       *slog.Logger
	errorHandler func(error)
	debounce     time.Duration
	maxEdge      int
	attempts     int

	saves  *mailbox.Mailbox[pending]
	writer *writeWorker
	cancel context.CancelFunc

	writes      atomic.Int64
	writeErrors atomic.Int64
}

// New creates an image store rooted at dir. Call Start before saving.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		root:     dir,
		debounce: DefaultDebounce,
		maxEdge:  DefaultMaxEdge,
		attempts: DefaultWriteAttempts,
		saves:    mailbox.New[pending](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriteWorker(s)
	return s
}

// Start creates the image directory and launches the write worker.
func (s *Store) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := os.MkdirAll(filepath.Join(s.root, core.ImageDir), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if err := s.writer.Start(runCtx); err != nil {
		cancel()
		return err
	}
	return nil
}

// Stop flushes a still-pending image and shuts the worker down.
func (s *Store) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.writer.Stop(ctx)
}

// Save enqueues raw image bytes and immediately returns the reference
// the pair will be stored under. The write happens in the background
// after the debounce window; failures surface only through the error
// handler.
func (s *Store) Save(data []byte) core.ImageRef {
	ref := core.NewImageRef()
	s.saves.Put(pending{ref: ref, data: data})
	return ref
}

// SaveFile reads path and enqueues its contents.
func (s *Store) SaveFile(path string) (core.ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.ImageRef{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return s.Save(data), nil
}

// HQPath returns the absolute path of the full-quality file.
func (s *Store) HQPath(ref core.ImageRef) string {
	return filepath.Join(s.root, ref.HQPath())
}

// LQPath returns the absolute path of the thumbnail file.
func (s *Store) LQPath(ref core.ImageRef) string {
	return filepath.Join(s.root, ref.LQPath())
}

// Remove deletes both files of the pair. Missing files are ignored.
func (s *Store) Remove(ref core.ImageRef) error {
	for _, path := range []string{s.HQPath(ref), s.LQPath(ref)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// writeWorker is the lifecycle worker draining the image mailbox.
type writeWorker struct {
	*worker.BaseWorker
	store  *Store
	cancel context.CancelFunc
}

func newWriteWorker(store *Store) *writeWorker {
	return &writeWorker{
		BaseWorker: worker.NewBaseWorker("image-writer"),
		store:      store,
	}
}

func (w *writeWorker) Start(ctx context.Context) error {
	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("image store already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.store.run)
}

func (w *writeWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *writeWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (s *Store) run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if p, ok := s.saves.Take(); ok {
				s.persist(p)
			}
			return nil

		case <-s.saves.Ready():
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.debounce)

		case <-timer.C:
			if p, ok := s.saves.Take(); ok {
				s.persist(p)
			}
		}
	}
}

// persist writes the HQ original and the derived LQ thumbnail as a
// pair. Both land or neither does: on repeated failure any partial
// file is removed rather than leaving an orphan half of the pair.
func (s *Store) persist(p pending) {
	img, _, err := image.Decode(bytes.NewReader(p.data))
	if err != nil {
		s.fail(fmt.Errorf("failed to decode image %s: %w", p.ref.ID, err))
		return
	}

	var lq bytes.Buffer
	if err := png.Encode(&lq, thumbnail(img, s.maxEdge)); err != nil {
		s.fail(fmt.Errorf("failed to encode thumbnail %s: %w", p.ref.ID, err))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if lastErr = s.writePair(p.ref, p.data, lq.Bytes()); lastErr == nil {
			s.writes.Add(1)
			if s.logger != nil {
				s.logger.Debug("image pair written", "id", p.ref.ID, "attempt", attempt)
			}
			return
		}
		if s.logger != nil {
			s.logger.Warn("image pair write failed", "id", p.ref.ID, "attempt", attempt, "error", lastErr)
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}

	// Out of attempts: a lone HQ file with no thumbnail would render as
	// a broken entry, so take back whatever half landed.
	if err := s.Remove(p.ref); err != nil && s.logger != nil {
		s.logger.Error("failed to clean up partial image pair", "id", p.ref.ID, "error", err)
	}
	s.fail(fmt.Errorf("giving up on image %s after %d attempts: %w", p.ref.ID, s.attempts, lastErr))
}

func (s *Store) writePair(ref core.ImageRef, hq, lq []byte) error {
	g := new(errgroup.Group)
	g.Go(func() error {
		return fs.WriteFileAtomic(s.HQPath(ref), hq, 0o644)
	})
	g.Go(func() error {
		return fs.WriteFileAtomic(s.LQPath(ref), lq, 0o644)
	})
	return g.Wait()
}

func (s *Store) fail(err error) {
	s.writeErrors.Add(1)
	if s.logger != nil {
		s.logger.Error("image store failure", "error", err)
	}
	if s.errorHandler != nil {
		s.errorHandler(err)
	}
}
