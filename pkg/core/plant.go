package core

import (
	"time"

	"github.com/google/uuid"
)

// Plant is the central entity of the domain.
// It represents a single plant under care, identified by a stable UUID
// assigned at creation. The UUID is the join key between the in-memory
// value and its persisted document; it never changes for the lifetime
// of the entity.
type Plant struct {
	ID             uuid.UUID
	Name           string
	ScientificName string
	Species        string
	Notes          string

	// Care intervals. Zero means "no reminder configured".
	// Negative values are invalid and rejected by the codec.
	WateringEvery    time.Duration
	FertilizingEvery time.Duration
	TrimmingEvery    time.Duration

	// Image is an optional handle to the plant's photo. The handle
	// carries identity only; bytes live in the image store.
	Image *ImageRef
}

// NewPlant creates a plant with a fresh random identifier.
func NewPlant(name string) Plant {
	return Plant{
		ID:   uuid.New(),
		Name: name,
	}
}

// Key returns the document key for this plant (dashed-hex UUID).
func (p Plant) Key() string {
	return p.ID.String()
}

// Equal reports field-wise equality. Image handles compare by UUID.
func (p Plant) Equal(o Plant) bool {
	if p.ID != o.ID ||
		p.Name != o.Name ||
		p.ScientificName != o.ScientificName ||
		p.Species != o.Species ||
		p.Notes != o.Notes ||
		p.WateringEvery != o.WateringEvery ||
		p.FertilizingEvery != o.FertilizingEvery ||
		p.TrimmingEvery != o.TrimmingEvery {
		return false
	}
	switch {
	case p.Image == nil && o.Image == nil:
		return true
	case p.Image == nil || o.Image == nil:
		return false
	default:
		return p.Image.ID == o.Image.ID
	}
}
