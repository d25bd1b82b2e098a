package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/growmygarden/verdant/pkg/adapters/lifecycle"
	"github.com/growmygarden/verdant/pkg/core"
)

func TestSourceBridgesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan core.Event, 1)
	src := adapter.NewSource(events)
	require.NoError(t, src.Start(ctx))

	events <- core.Event{Type: core.EventModify, ID: "some-plant"}

	select {
	case got := <-src.Events():
		assert.Contains(t, got.String(), "some-plant")
	case <-time.After(time.Second):
		t.Fatal("event never crossed the bridge")
	}
}

func TestSourceClosesWhenFeedCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan core.Event)
	src := adapter.NewSource(events)
	require.NoError(t, src.Start(ctx))

	close(events)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("bridge did not shut down")
	}
}
