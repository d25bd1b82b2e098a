package mailbox_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/internal/mailbox"
)

func TestTakeEmpty(t *testing.T) {
	m := mailbox.New[int]()

	_, ok := m.Take()
	assert.False(t, ok)
	assert.False(t, m.Pending())
}

func TestPutTake(t *testing.T) {
	m := mailbox.New[string]()

	m.Put("hello")
	assert.True(t, m.Pending())

	v, ok := m.Take()
	require.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.False(t, m.Pending())

	_, ok = m.Take()
	assert.False(t, ok, "a value is consumed exactly once")
}

func TestNewestWins(t *testing.T) {
	m := mailbox.New[int]()

	for i := 1; i <= 100; i++ {
		m.Put(i)
	}

	v, ok := m.Take()
	require.True(t, ok)
	assert.Equal(t, 100, v, "a burst of puts collapses to the latest value")
}

func TestReadySignalsOnce(t *testing.T) {
	m := mailbox.New[int]()

	m.Put(1)
	m.Put(2)
	m.Put(3)

	<-m.Ready()
	select {
	case <-m.Ready():
		t.Fatal("multiple puts must coalesce into one pending signal")
	default:
	}

	v, _ := m.Take()
	assert.Equal(t, 3, v)
}

func TestConcurrentPuts(t *testing.T) {
	m := mailbox.New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Put(n)
		}(i)
	}
	wg.Wait()

	_, ok := m.Take()
	assert.True(t, ok, "after concurrent puts exactly one value remains")
	_, ok = m.Take()
	assert.False(t, ok)
}
