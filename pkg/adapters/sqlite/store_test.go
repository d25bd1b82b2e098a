package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/growmygarden/verdant/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	body := []byte(`{"name":"Ficus"}`)
	if err := store.Upsert(ctx, "doc-1", body); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("Get returned %q, want %q", got, body)
	}

	if err := store.Upsert(ctx, "doc-1", []byte(`{"name":"Aloe"}`)); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	got, err = store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if string(got) != `{"name":"Aloe"}` {
		t.Errorf("Get after update returned %q", got)
	}

	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "doc-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get after delete returned %v, want ErrNotFound", err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRejectsEmptyID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Upsert(ctx, "", []byte("{}")); !errors.Is(err, core.ErrInvalidID) {
		t.Errorf("Upsert with empty id returned %v, want ErrInvalidID", err)
	}
	if _, err := store.Get(ctx, ""); !errors.Is(err, core.ErrInvalidID) {
		t.Errorf("Get with empty id returned %v, want ErrInvalidID", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, core.ErrInvalidID) {
		t.Errorf("Delete with empty id returned %v, want ErrInvalidID", err)
	}
}

func TestStoreListOrdersByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		if err := store.Upsert(ctx, id, []byte(`{"id":"`+id+`"}`)); err != nil {
			t.Fatalf("Upsert %s failed: %v", id, err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"alpha", "bravo", "charlie"} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}
}

func TestStoreWatchSeesOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t)

	events, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := store.Upsert(ctx, "doc-1", []byte("{}")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	assertEvent(t, events, core.EventCreate, "doc-1")

	if err := store.Upsert(ctx, "doc-1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	assertEvent(t, events, core.EventModify, "doc-1")

	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertEvent(t, events, core.EventDelete, "doc-1")
}

func TestStoreDeleteAbsentPublishesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t)

	events, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := store.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("deleting an absent document should succeed, got %v", err)
	}

	select {
	case e := <-events:
		t.Fatalf("unexpected event %s/%s for absent delete", e.Type, e.ID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Upsert(ctx, "doc-1", []byte(`{"name":"Ficus"}`)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != `{"name":"Ficus"}` {
		t.Errorf("Get after reopen returned %q", got)
	}
}

func TestStoreCloseRejectsOperations(t *testing.T) {
	ctx := context.Background()
	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := store.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := store.Upsert(ctx, "doc", []byte("{}")); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Upsert after close returned %v, want ErrClosed", err)
	}
	if _, err := store.List(ctx); !errors.Is(err, core.ErrClosed) {
		t.Errorf("List after close returned %v, want ErrClosed", err)
	}
	if _, err := store.Watch(ctx); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Watch after close returned %v, want ErrClosed", err)
	}
}

func assertEvent(t *testing.T, events <-chan core.Event, eType core.EventType, id string) {
	t.Helper()

	select {
	case e := <-events:
		if e.Type != eType || e.ID != id {
			t.Fatalf("got event %s/%s, want %s/%s", e.Type, e.ID, eType, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s event on %s", eType, id)
	}
}
