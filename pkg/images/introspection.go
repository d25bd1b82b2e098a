package images

import (
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle/pkg/core/worker"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	WriterStatus worker.Status `json:"writer_status"`
	Debounce     string        `json:"debounce"`
	PendingWrite bool          `json:"pending_write"`
	Writes       int64         `json:"writes"`
	WriteErrors  int64         `json:"write_errors"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		WriterStatus: s.writer.State().Status,
		Debounce:     s.debounce.Round(time.Millisecond).String(),
		PendingWrite: s.saves.Pending(),
		Writes:       s.writes.Load(),
		WriteErrors:  s.writeErrors.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "image-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
