package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/growmygarden/verdant/pkg/core"
)

// docPattern selects the files the watcher considers documents.
const docPattern = "*" + docExt

// watchWorker feeds out-of-band filesystem changes into the store's
// event broker. Writes performed by the store itself are suppressed by
// content checksum, so subscribers see foreign edits exactly once.
type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-doc-watcher"),
		store:      store,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.store.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *watchWorker) run(ctx context.Context) error {
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()
	// Note: debouncer cleanup happens explicitly after the loop so all
	// in-flight timers finish before the broker can be closed.

	err := w.eventLoop(ctx)
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.store.config.Logger != nil {
				w.store.config.Logger.Error("fsnotify error", "error", wErr)
			}
			if w.store.config.ErrorHandler != nil {
				w.store.config.ErrorHandler(wErr)
			}
		}
	}
}

// handleEvent filters, debounces and republishes a filesystem event.
func (w *watchWorker) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) {
		return
	}
	if ok, err := doublestar.Match(docPattern, name); err != nil || !ok {
		return
	}

	id := strings.TrimSuffix(name, docExt)
	if w.store.config.Logger != nil {
		w.store.config.Logger.Debug("external event received", "id", id, "op", event.Op.String())
	}

	// Debounce per document: editors often emit several events per save.
	w.debouncer.add(id, func() {
		if ctx.Err() != nil {
			return
		}
		if e, ok := w.classify(id); ok {
			w.store.broker.Publish(e)
		}
	})
}

// classify decides, after the quiet period, what actually happened to
// the document and whether it was one of our own writes.
func (w *watchWorker) classify(id string) (core.Event, bool) {
	body, err := os.ReadFile(w.store.docPath(id))
	if os.IsNotExist(err) {
		return core.Event{Type: core.EventDelete, ID: id, Timestamp: time.Now().Unix()}, true
	}
	if err != nil {
		if w.store.config.ErrorHandler != nil {
			w.store.config.ErrorHandler(fmt.Errorf("failed to inspect %s: %w", id, err))
		}
		return core.Event{}, false
	}

	if w.store.isSelfWrite(id, body) {
		return core.Event{}, false
	}
	return core.Event{Type: core.EventModify, ID: id, Timestamp: time.Now().Unix()}, true
}
