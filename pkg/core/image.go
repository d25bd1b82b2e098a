package core

import (
	"fmt"

	"github.com/google/uuid"
)

// ImageDir is the directory, relative to the data root, holding both
// halves of every stored image pair.
const ImageDir = "img"

// ImageRef is an opaque handle to a stored plant photo.
// It carries identity only: the two asset locations are derived from
// the UUID, the bytes themselves live in the image store.
type ImageRef struct {
	ID uuid.UUID
}

// NewImageRef allocates a handle with a fresh random identifier.
func NewImageRef() ImageRef {
	return ImageRef{ID: uuid.New()}
}

// HQPath is the store-relative location of the full-resolution asset.
func (r ImageRef) HQPath() string {
	return fmt.Sprintf("%s/%s.png", ImageDir, r.ID)
}

// LQPath is the store-relative location of the derived thumbnail.
func (r ImageRef) LQPath() string {
	return fmt.Sprintf("%s/%s_lq.png", ImageDir, r.ID)
}
