package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by point lookups for absent keys.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store is closed")

	// ErrInvalidID is returned for empty or unsafe document keys.
	ErrInvalidID = errors.New("invalid document id")
)
