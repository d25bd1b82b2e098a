package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/growmygarden/verdant/pkg/adapters/fs"
	"github.com/growmygarden/verdant/pkg/adapters/sqlite"
	"github.com/growmygarden/verdant/pkg/auth"
	"github.com/growmygarden/verdant/pkg/core"
	"github.com/growmygarden/verdant/pkg/garden"
	"github.com/growmygarden/verdant/pkg/images"
	"github.com/growmygarden/verdant/pkg/reminder"
)

// Conventional locations inside the data directory.
const (
	plantsDir    = "plants"
	databaseFile = "plants.db"
)

// Open assembles and starts a Garden rooted at dataDir: the document
// store, the auth session, the plant repository, the image store and,
// unless disabled, the reminder planner.
func Open(ctx context.Context, dataDir string, opts ...Option) (*Garden, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := openStore(ctx, dataDir, o)
	if err != nil {
		return nil, err
	}

	session := o.session
	if session == nil {
		session = auth.NewSession(auth.WithLogger(o.logger))
	}

	runCtx, cancel := context.WithCancel(ctx)

	g := &Garden{
		dataDir: dataDir,
		logger:  o.logger,
		store:   store,
		session: session,
		cancel:  cancel,
	}

	fail := func(err error) (*Garden, error) {
		cancel()
		_ = store.Close()
		return nil, err
	}

	g.plants = garden.New(store,
		garden.WithDebounce(o.debounce),
		garden.WithLogger(o.logger),
		garden.WithErrorHandler(o.errorHandler),
		garden.WithUserScope(session),
	)
	if err := g.plants.Start(runCtx); err != nil {
		return fail(fmt.Errorf("failed to start plant repository: %w", err))
	}

	g.images = images.New(dataDir,
		images.WithDebounce(o.imageDebounce),
		images.WithLogger(o.logger),
		images.WithErrorHandler(o.errorHandler),
	)
	if err := g.images.Start(runCtx); err != nil {
		return fail(fmt.Errorf("failed to start image store: %w", err))
	}

	if o.reminders {
		sched := o.scheduler
		if sched == nil {
			sched = reminder.NewLogScheduler(o.logger)
		}
		g.planner = reminder.NewPlanner(store, sched, reminder.WithLogger(o.logger))
		if err := g.planner.Start(runCtx); err != nil {
			return fail(fmt.Errorf("failed to start reminder planner: %w", err))
		}
	}

	return g, nil
}

func openStore(ctx context.Context, dataDir string, o *options) (core.DocumentStore, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "fs":
		store := fs.New(fs.Config{
			Path:          filepath.Join(dataDir, plantsDir),
			WatchExternal: o.watchExternal,
			EventBuffer:   o.eventBuffer,
			Logger:        o.logger,
		})
		if err := store.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize document store: %w", err)
		}
		return store, nil

	case "sqlite":
		store, err := sqlite.Open(sqlite.Config{
			Path:        filepath.Join(dataDir, databaseFile),
			EventBuffer: o.eventBuffer,
			Logger:      o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage adapter: %q", o.adapter)
	}
}
