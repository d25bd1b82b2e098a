package core

import "context"

// Record is a raw stored document: its key plus the serialized body.
type Record struct {
	ID   string
	Body []byte
}

// DocumentStore defines the contract for the embedded document database.
// Adhering to this interface keeps the repositories independent of the
// underlying storage mechanism (filesystem, SQLite, memory).
//
// Implementations must be safe for concurrent reads; write-write
// serialization is the caller's responsibility (the repositories funnel
// all mutations through a single writer lane).
type DocumentStore interface {
	// Get retrieves a document body by key. Returns ErrNotFound if the
	// key has no document.
	Get(ctx context.Context, id string) ([]byte, error)

	// Upsert creates or replaces the document under the given key.
	Upsert(ctx context.Context, id string, body []byte) error

	// Delete removes a document. Deleting an absent key is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns all stored documents.
	List(ctx context.Context) ([]Record, error)

	// Watch returns a live feed of change events. The channel is closed
	// when ctx is cancelled or the store shuts down.
	Watch(ctx context.Context) (<-chan Event, error)

	// Close releases the underlying database handle.
	Close() error
}
