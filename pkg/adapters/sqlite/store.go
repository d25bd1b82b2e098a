// Package sqlite implements core.DocumentStore on an embedded SQLite
// database. Documents live in a single table keyed by id; the live
// change feed is driven by the store's own writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/growmygarden/verdant/internal/broker"
	"github.com/growmygarden/verdant/pkg/adapters/sqlite/migrations"
	"github.com/growmygarden/verdant/pkg/core"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Config holds the configuration for the SQLite store.
type Config struct {
	// Path is the database file, or ":memory:" for tests.
	Path string

	// EventBuffer sizes each subscriber's event channel. Zero means 16.
	EventBuffer int

	Logger *slog.Logger
}

// Store is a SQLite-backed document store.
type Store struct {
	db     *sql.DB
	config Config
	broker *broker.Broker

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if needed) the database and migrates the schema.
func Open(config Config) (*Store, error) {
	db, err := openConnection(config.Path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}

	if config.Logger != nil {
		config.Logger.Debug("sqlite store opened", "path", config.Path)
	}

	return &Store{
		db:     db,
		config: config,
		broker: broker.New(config.EventBuffer),
	}, nil
}

// openConnection opens and configures a SQLite connection with the
// appropriate PRAGMAs. path can be a file path or ":memory:".
func openConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Get retrieves a document body by key.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, core.ErrInvalidID
	}

	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
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
	if id == "" {
		return core.ErrInvalidID
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check document %s: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}

	eType := core.EventCreate
	if exists {
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
	if id == "" {
		return core.ErrInvalidID
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	s.broker.Publish(core.Event{Type: core.EventDelete, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// List returns all stored documents.
func (s *Store) List(ctx context.Context) ([]core.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, body FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var rec core.Record
		if err := rows.Scan(&rec.ID, &rec.Body); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
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

// Close closes the event feeds and the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.broker.Close()
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return core.ErrClosed
	}
	return nil
}

var _ core.DocumentStore = (*Store)(nil)
