package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/pkg/adapters/fs"
	"github.com/growmygarden/verdant/pkg/codec"
	"github.com/growmygarden/verdant/pkg/core"
	"github.com/growmygarden/verdant/pkg/reminder"
)

func setupPlanner(t *testing.T) (*fs.Store, *reminder.LogScheduler, *reminder.Planner) {
	t.Helper()

	store := fs.New(fs.Config{Path: t.TempDir()})
	require.NoError(t, store.Initialize(context.Background()))

	sched := reminder.NewLogScheduler(nil)
	planner := reminder.NewPlanner(store, sched)

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = planner.Stop(stopCtx)
		_ = store.Close()
	})
	return store, sched, planner
}

func putPlant(t *testing.T, store *fs.Store, p core.Plant) {
	t.Helper()
	body, err := codec.Encode(codec.FromPlant(p, ""))
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), p.Key(), body))
}

func TestStartReconcilesExistingPlants(t *testing.T) {
	store, sched, planner := setupPlanner(t)

	plant := core.NewPlant("Aloe")
	plant.WateringEvery = 72 * time.Hour
	putPlant(t, store, plant)

	require.NoError(t, planner.Start(context.Background()))

	entry, ok := sched.Entry(reminder.Key(plant.Key(), reminder.KeyWatering))
	require.True(t, ok, "existing plant should get a watering reminder on startup")
	assert.Equal(t, 72*time.Hour, entry.Every)
	assert.Equal(t, "Water Aloe", entry.Title)

	_, ok = sched.Entry(reminder.Key(plant.Key(), reminder.KeyFertilizing))
	assert.False(t, ok, "zero frequency must not arm a reminder")
}

func TestPlannerFollowsWrites(t *testing.T) {
	store, sched, planner := setupPlanner(t)
	require.NoError(t, planner.Start(context.Background()))

	plant := core.NewPlant("Basil")
	plant.TrimmingEvery = 30 * 24 * time.Hour
	putPlant(t, store, plant)

	key := reminder.Key(plant.Key(), reminder.KeyTrimming)
	require.Eventually(t, func() bool {
		_, ok := sched.Entry(key)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	entry, _ := sched.Entry(key)
	assert.Equal(t, "Trim Basil", entry.Title)
}

func TestClearingFrequencyCancelsReminder(t *testing.T) {
	store, sched, planner := setupPlanner(t)

	plant := core.NewPlant("Fern")
	plant.WateringEvery = 24 * time.Hour
	putPlant(t, store, plant)

	require.NoError(t, planner.Start(context.Background()))
	key := reminder.Key(plant.Key(), reminder.KeyWatering)
	_, ok := sched.Entry(key)
	require.True(t, ok)

	plant.WateringEvery = 0
	putPlant(t, store, plant)

	require.Eventually(t, func() bool {
		_, ok := sched.Entry(key)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDeleteCancelsAllReminders(t *testing.T) {
	store, sched, planner := setupPlanner(t)

	plant := core.NewPlant("Cactus")
	plant.WateringEvery = 14 * 24 * time.Hour
	plant.FertilizingEvery = 60 * 24 * time.Hour
	putPlant(t, store, plant)

	require.NoError(t, planner.Start(context.Background()))
	require.Len(t, sched.Keys(), 2)

	require.NoError(t, store.Delete(context.Background(), plant.Key()))

	require.Eventually(t, func() bool {
		return len(sched.Keys()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
