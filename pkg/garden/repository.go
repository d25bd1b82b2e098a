// Package garden provides the plant repository: a write-coalescing,
// single-writer persistence engine over a document store, with a live
// ordered view of all stored plants.
//
// Writes are conflated — Save holds at most one pending plant and a new
// call silently replaces it — and flushed by a background worker after
// a trailing debounce window. Rapid successive edits (a slider being
// dragged) therefore collapse to a single store write instead of one
// write per UI tick. All mutations for one repository run on a single
// writer lane, in the order their debounce window closed.
package garden

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/google/uuid"

	"github.com/growmygarden/verdant/internal/mailbox"
	"github.com/growmygarden/verdant/pkg/codec"
	"github.com/growmygarden/verdant/pkg/core"
)

// DefaultDebounce is the quiet period before a pending save is flushed.
const DefaultDebounce = 250 * time.Millisecond

// Option configures a Repository.
type Option func(*Repository)

// WithDebounce overrides the flush debounce window.
func WithDebounce(d time.Duration) Option {
	return func(r *Repository) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithErrorHandler registers a callback invoked on flush or delete
// failures. Writes are fire-and-forget by design, so this is the only
// way a caller learns that persistence is failing.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Repository) {
		r.errorHandler = fn
	}
}

// WithUserScope attaches the auth bridge signal. When a user is set,
// saved documents are stamped with the user id and live queries are
// scoped to that user's plants.
func WithUserScope(scope core.UserScope) Option {
	return func(r *Repository) {
		r.scope = scope
	}
}

// Repository maintains the live plant view and the debounced write
// pipeline for a single document store.
type Repository struct {
	store        core.DocumentStore
	logger       *slog.Logger
	errorHandler func(error)
	scope        core.UserScope
	debounce     time.Duration

	saves   *mailbox.Mailbox[core.Plant]
	deletes chan core.Plant
	writer  *flushWorker

	mu     sync.Mutex
	subs   map[int]chan []core.Plant
	nextID int
	cancel context.CancelFunc

	flushes     atomic.Int64
	flushErrors atomic.Int64
	decodeSkips atomic.Int64
}

// New creates a repository over store. Call Start before saving.
func New(store core.DocumentStore, opts ...Option) *Repository {
	r := &Repository{
		store:    store,
		debounce: DefaultDebounce,
		saves:    mailbox.New[core.Plant](),
		deletes:  make(chan core.Plant, 64),
		subs:     make(map[int]chan []core.Plant),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.writer = newFlushWorker(r)
	return r
}

// Start launches the writer loop and the live-view pump, bound to ctx.
func (r *Repository) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	events, err := r.store.Watch(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to watch store: %w", err)
	}

	// The pump recomputes and broadcasts snapshots off the writer lane,
	// keeping reads away from the single-writer flush loop.
	lifecycle.Go(runCtx, func(ctx context.Context) error {
		return r.pump(ctx, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.fail("live view pump", err)
	}))

	if err := r.writer.Start(runCtx); err != nil {
		cancel()
		return err
	}
	return nil
}

// Stop flushes any still-pending save and shuts the workers down.
func (r *Repository) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	return r.writer.Stop(ctx)
}

// flushWorker is the lifecycle worker running the writer loop.
type flushWorker struct {
	*worker.BaseWorker
	repo   *Repository
	cancel context.CancelFunc
}

func newFlushWorker(repo *Repository) *flushWorker {
	return &flushWorker{
		BaseWorker: worker.NewBaseWorker("plant-flush-writer"),
		repo:       repo,
	}
}

func (w *flushWorker) Start(ctx context.Context) error {
	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("repository already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.repo.run)
}

func (w *flushWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *flushWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// Save enqueues plant as the latest pending write and returns
// immediately. A previous pending write that has not flushed yet is
// silently replaced; success or failure is not reported to the caller.
func (r *Repository) Save(plant core.Plant) {
	r.saves.Put(plant)
}

// SaveAll enqueues each plant and waits slightly longer than the
// debounce window between enqueues, so every item gets its own flush
// cycle instead of being conflated with the next. A convenience for
// seeding and tests, not a transactional batch.
func (r *Repository) SaveAll(ctx context.Context, plants ...core.Plant) error {
	for _, p := range plants {
		r.Save(p)
		select {
		case <-time.After(r.debounce + 50*time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Delete asynchronously removes the plant's document. It runs on the
// same writer lane as saves, so it is ordered relative to other writes;
// deleting an absent plant is a no-op.
func (r *Repository) Delete(plant core.Plant) {
	select {
	case r.deletes <- plant:
	default:
		// Queue momentarily full; hand the enqueue to a tracked task so
		// the caller still never blocks.
		lifecycle.Go(context.Background(), func(ctx context.Context) error {
			r.deletes <- plant
			return nil
		})
	}
}

// Contains reports whether a document for the plant's identifier has
// been committed to the store. Pending (not yet flushed) writes are
// not visible.
func (r *Repository) Contains(ctx context.Context, plant core.Plant) (bool, error) {
	_, err := r.store.Get(ctx, plant.Key())
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves a single plant by identifier, reading through the store.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (core.Plant, error) {
	body, err := r.store.Get(ctx, id.String())
	if err != nil {
		return core.Plant{}, err
	}
	return codec.DecodePlant(body)
}

// run is the writer loop: the only goroutine mutating the store on
// behalf of this repository.
func (r *Repository) run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final drain: queued deletes and a save caught
			// mid-debounce are still applied, so an app shutting down
			// right after an edit keeps it.
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case plant := <-r.deletes:
					r.applyDelete(drainCtx, plant)
					continue
				default:
				}
				break
			}
			if plant, ok := r.saves.Take(); ok {
				r.flush(drainCtx, plant)
			}
			return nil

		case <-r.saves.Ready():
			// Trailing debounce: every new write intent pushes the
			// flush out by the full window.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(r.debounce)

		case <-timer.C:
			if plant, ok := r.saves.Take(); ok {
				r.flush(ctx, plant)
			}

		case plant := <-r.deletes:
			r.applyDelete(ctx, plant)
		}
	}
}

// flush performs the read-merge-write cycle for one plant.
func (r *Repository) flush(ctx context.Context, plant core.Plant) {
	id := plant.Key()

	var doc codec.PlantDoc
	body, err := r.store.Get(ctx, id)
	switch {
	case err == nil:
		existing, derr := codec.Decode(body)
		if derr != nil {
			// Corrupt stored document: overwrite with a fresh one
			// rather than failing the save.
			if r.logger != nil {
				r.logger.Debug("replacing corrupt document", "id", id, "error", derr)
			}
		} else {
			doc = existing
		}
	case errors.Is(err, core.ErrNotFound):
		// First write for this plant.
	default:
		r.fail("flush lookup", fmt.Errorf("failed to load document %s: %w", id, err))
		return
	}

	var userID string
	if r.scope != nil {
		userID, _ = r.scope.CurrentUserID()
	}

	doc = codec.Merge(doc, plant, userID)
	encoded, err := codec.Encode(doc)
	if err != nil {
		r.fail("flush encode", err)
		return
	}

	if err := r.store.Upsert(ctx, id, encoded); err != nil {
		r.fail("flush write", err)
		return
	}

	r.flushes.Add(1)
	if r.logger != nil {
		r.logger.Debug("plant flushed", "id", id, "name", plant.Name)
	}
}

func (r *Repository) applyDelete(ctx context.Context, plant core.Plant) {
	if err := r.store.Delete(ctx, plant.Key()); err != nil {
		r.fail("delete", err)
		return
	}
	if r.logger != nil {
		r.logger.Debug("plant deleted", "id", plant.Key())
	}
}

// fail logs a pipeline error and reports it through the optional
// handler; the worker itself carries on with the next item.
func (r *Repository) fail(op string, err error) {
	r.flushErrors.Add(1)
	if r.logger != nil {
		r.logger.Error("repository "+op+" failed", "error", err)
	}
	if r.errorHandler != nil {
		r.errorHandler(err)
	}
}

// snapshot lists, decodes, scopes and orders the current plants.
// A document that fails to decode is skipped, never fatal to the view.
func (r *Repository) snapshot(ctx context.Context) ([]core.Plant, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var userID string
	var scoped bool
	if r.scope != nil {
		userID, scoped = r.scope.CurrentUserID()
	}

	plants := make([]core.Plant, 0, len(records))
	for _, rec := range records {
		doc, err := codec.Decode(rec.Body)
		if err != nil {
			r.decodeSkips.Add(1)
			if r.logger != nil {
				r.logger.Debug("skipping corrupt document", "id", rec.ID, "error", err)
			}
			continue
		}
		if scoped && doc.UserID != "" && doc.UserID != userID {
			continue
		}
		plants = append(plants, doc.Plant())
	}

	sort.Slice(plants, func(i, j int) bool {
		if plants[i].Name != plants[j].Name {
			return plants[i].Name > plants[j].Name // descending by name
		}
		return plants[i].ID.String() < plants[j].ID.String()
	})
	return plants, nil
}
