// Package fs implements core.DocumentStore on top of a plain directory:
// one JSON file per document, written atomically, with a live change
// feed driven by the store's own writes and (optionally) by an fsnotify
// watcher picking up out-of-band edits.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/growmygarden/verdant/internal/broker"
	"github.com/growmygarden/verdant/pkg/core"
)

const docExt = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	// Path is the directory holding the document files. Created lazily
	// by Initialize.
	Path string

	// WatchExternal starts an fsnotify watcher so edits made outside
	// this process also show up on the live feed.
	WatchExternal bool

	// EventBuffer sizes each subscriber's event channel. Zero means 16.
	EventBuffer int

	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Store is a filesystem-backed document store.
type Store struct {
	path   string
	config Config
	broker *broker.Broker

	mu            sync.RWMutex
	closed        bool
	selfWrites    map[string]string // id -> checksum of our last write
	watcher       *watchWorker
	watcherActive bool
}

// New creates a store over config.Path. Call Initialize before use.
func New(config Config) *Store {
	return &Store{
		path:       config.Path,
		config:     config,
		broker:     broker.New(config.EventBuffer),
		selfWrites: make(map[string]string),
	}
}

// Initialize ensures the directory exists and, if configured, starts
// the external change watcher bound to ctx.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if s.config.WatchExternal {
		w := newWatchWorker(s)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start change watcher: %w", err)
		}
		s.mu.Lock()
		s.watcher = w
		s.mu.Unlock()
	}
	return nil
}

// Get retrieves a document body by key.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(s.docPath(id))
	if os.IsNotExist(err) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return body, nil
}

// Upsert creates or replaces the document under id.
func (s *Store) Upsert(ctx context.Context, id string, body []byte) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	path := s.docPath(id)
	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := WriteFileAtomic(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}

	s.recordSelfWrite(id, body)

	eType := core.EventCreate
	if existed {
		eType = core.EventModify
	}
	s.broker.Publish(core.Event{Type: eType, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// Delete removes a document. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	err := os.Remove(s.docPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	s.clearSelfWrite(id)
	s.broker.Publish(core.Event{Type: core.EventDelete, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// List returns all stored documents.
func (s *Store) List(ctx context.Context) ([]core.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}

	var records []core.Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, TempFilePrefix) || filepath.Ext(name) != docExt {
			continue
		}

		body, err := os.ReadFile(filepath.Join(s.path, name))
		if err != nil {
			// The file may have been deleted between ReadDir and here.
			if s.config.Logger != nil {
				s.config.Logger.Debug("skipping unreadable document", "file", name, "error", err)
			}
			continue
		}
		records = append(records, core.Record{
			ID:   strings.TrimSuffix(name, docExt),
			Body: body,
		})
	}
	return records, nil
}

// Watch returns a live change feed, closed when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.broker.Subscribe(ctx)
}

// Close stops the watcher (if any) and closes all event feeds.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	watcher := s.watcher
	s.mu.Unlock()

	if watcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = watcher.Stop(ctx)
	}
	s.broker.Close()
	return nil
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) docPath(id string) string {
	return filepath.Join(s.path, id+docExt)
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return core.ErrClosed
	}
	return nil
}

// recordSelfWrite remembers the checksum of a body we just wrote so the
// external watcher can tell our writes apart from foreign edits.
func (s *Store) recordSelfWrite(id string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selfWrites[id] = checksum(body)
}

func (s *Store) clearSelfWrite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selfWrites, id)
}

// isSelfWrite reports whether body matches the last write this store
// performed for id.
func (s *Store) isSelfWrite(id string, body []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.selfWrites[id]
	return ok && sum == checksum(body)
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// validateID rejects keys that would escape the store directory.
func validateID(id string) error {
	if id == "" {
		return core.ErrInvalidID
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}
	return nil
}

var _ core.DocumentStore = (*Store)(nil)
