package garden

import (
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle/pkg/core/worker"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	WriterStatus worker.Status `json:"writer_status"`
	Debounce     string `json:"debounce"`
	PendingSave  bool   `json:"pending_save"`
	Flushes      int64  `json:"flushes"`
	FlushErrors  int64  `json:"flush_errors"`
	DecodeSkips  int64  `json:"decode_skips"`
	Subscribers  int    `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return RepositoryState{
		WriterStatus: r.writer.State().Status,
		Debounce:     r.debounce.Round(time.Millisecond).String(),
		PendingSave:  r.saves.Pending(),
		Flushes:      r.flushes.Load(),
		FlushErrors:  r.flushErrors.Load(),
		DecodeSkips:  r.decodeSkips.Load(),
		Subscribers:  r.Subscribers(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "plant-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
