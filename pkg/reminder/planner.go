package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/growmygarden/verdant/pkg/codec"
	"github.com/growmygarden/verdant/pkg/core"
)

// Care dimension suffixes composing reminder keys: "<plantID>:<suffix>".
const (
	KeyWatering    = "watering"
	KeyFertilizing = "fertilizing"
	KeyTrimming    = "trimming"
)

// Key builds the reminder key for one plant and care dimension.
func Key(plantID, suffix string) string {
	return plantID + ":" + suffix
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PlannerOption {
	return func(p *Planner) {
		p.logger = logger
	}
}

// Planner synchronizes reminders with committed plant documents. It
// runs as a lifecycle worker: an initial full reconcile against the
// store, then incremental updates from the change feed.
type Planner struct {
	*worker.BaseWorker
	store  core.DocumentStore
	sched  Scheduler
	logger *slog.Logger
	cancel context.CancelFunc

	syncs     atomic.Int64
	syncFails atomic.Int64
}

// NewPlanner creates a planner over store driving sched.
func NewPlanner(store core.DocumentStore, sched Scheduler, opts ...PlannerOption) *Planner {
	p := &Planner{
		BaseWorker: worker.NewBaseWorker("reminder-planner"),
		store:      store,
		sched:      sched,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start reconciles existing documents and begins following the feed.
func (p *Planner) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := p.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("planner already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	events, err := p.store.Watch(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to watch store: %w", err)
	}

	if err := p.reconcile(runCtx); err != nil {
		cancel()
		return err
	}

	p.SetStatus(worker.StatusRunning)
	return p.StartFunc(runCtx, func(ctx context.Context) error {
		return p.run(ctx, events)
	})
}

// Stop shuts the planner down. Armed reminders stay armed.
func (p *Planner) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.StopRequested = true
		p.cancel()
	}
	return p.BaseWorker.Stop(ctx)
}

// State exports worker state.
func (p *Planner) State() worker.State {
	return p.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (p *Planner) run(ctx context.Context, events <-chan core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handle(ctx, ev)
		}
	}
}

func (p *Planner) handle(ctx context.Context, ev core.Event) {
	switch ev.Type {
	case core.EventDelete:
		p.cancelAll(ev.ID)
	default:
		body, err := p.store.Get(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between event and read.
			p.cancelAll(ev.ID)
			return
		}
		if err != nil {
			p.syncFails.Add(1)
			if p.logger != nil {
				p.logger.Error("failed to load document for reminder sync", "id", ev.ID, "error", err)
			}
			return
		}
		doc, err := codec.Decode(body)
		if err != nil {
			if p.logger != nil {
				p.logger.Debug("skipping corrupt document for reminders", "id", ev.ID, "error", err)
			}
			return
		}
		p.apply(doc)
	}
}

// reconcile arms reminders for everything already in the store.
func (p *Planner) reconcile(ctx context.Context) error {
	records, err := p.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents for reminder sync: %w", err)
	}
	for _, rec := range records {
		doc, err := codec.Decode(rec.Body)
		if err != nil {
			continue
		}
		p.apply(doc)
	}
	return nil
}

// apply arms or cancels the three care reminders for one plant.
func (p *Planner) apply(doc codec.PlantDoc) {
	id := doc.UUID.String()
	name := doc.Name

	p.sync(Key(id, KeyWatering), doc.WateringFrequency.Std(),
		"Water "+name, name+" is due for watering.")
	p.sync(Key(id, KeyFertilizing), doc.FertilizingFrequency.Std(),
		"Fertilize "+name, name+" is due for fertilizer.")
	p.sync(Key(id, KeyTrimming), doc.TrimmingFrequency.Std(),
		"Trim "+name, name+" is due for trimming.")
}

func (p *Planner) sync(key string, every time.Duration, title, body string) {
	var err error
	if every > 0 {
		err = p.sched.ScheduleRepeating(key, title, body, every)
	} else {
		err = p.sched.Cancel(key)
	}
	if err != nil {
		p.syncFails.Add(1)
		if p.logger != nil {
			p.logger.Error("reminder sync failed", "key", key, "error", err)
		}
		return
	}
	p.syncs.Add(1)
}

func (p *Planner) cancelAll(plantID string) {
	for _, suffix := range []string{KeyWatering, KeyFertilizing, KeyTrimming} {
		if err := p.sched.Cancel(Key(plantID, suffix)); err != nil {
			p.syncFails.Add(1)
			if p.logger != nil {
				p.logger.Error("reminder cancel failed", "plant", plantID, "error", err)
			}
		}
	}
}
