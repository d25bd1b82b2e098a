package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/hashicorp/go-multierror"

	"github.com/growmygarden/verdant/pkg/auth"
	"github.com/growmygarden/verdant/pkg/core"
	"github.com/growmygarden/verdant/pkg/garden"
	"github.com/growmygarden/verdant/pkg/images"
	"github.com/growmygarden/verdant/pkg/reminder"
)

// Garden is the assembled application core: one store, one session and
// the background workers over them.
type Garden struct {
	dataDir string
	logger  *slog.Logger

	store   core.DocumentStore
	session *auth.Session
	plants  *garden.Repository
	images  *images.Store
	planner *reminder.Planner

	cancel context.CancelFunc
}

// DataDir returns the root directory all data lives under.
func (g *Garden) DataDir() string { return g.dataDir }

// Store exposes the underlying document store.
func (g *Garden) Store() core.DocumentStore { return g.store }

// Session exposes the auth session.
func (g *Garden) Session() *auth.Session { return g.session }

// Plants exposes the plant repository.
func (g *Garden) Plants() *garden.Repository { return g.plants }

// Images exposes the image store.
func (g *Garden) Images() *images.Store { return g.images }

// Close stops every worker and closes the store. Pending debounced
// writes are drained before shutdown completes.
func (g *Garden) Close(ctx context.Context) error {
	var result *multierror.Error

	if g.planner != nil {
		if err := g.planner.Stop(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := g.plants.Stop(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := g.images.Stop(ctx); err != nil {
		result = multierror.Append(result, err)
	}

	g.cancel()

	if err := g.store.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// GardenState aggregates component states for observability.
type GardenState struct {
	DataDir string      `json:"data_dir"`
	Status  auth.Status `json:"auth_status"`
	Plants  any         `json:"plants"`
	Images  any         `json:"images"`
	Store   any         `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (g *Garden) State() any {
	state := GardenState{
		DataDir: g.dataDir,
		Status:  g.session.Status(),
		Plants:  g.plants.State(),
		Images:  g.images.State(),
	}
	if intro, ok := g.store.(introspection.Introspectable); ok {
		state.Store = intro.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (g *Garden) ComponentType() string {
	return "garden"
}

var _ introspection.Introspectable = (*Garden)(nil)
var _ introspection.Component = (*Garden)(nil)
