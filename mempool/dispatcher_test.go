package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_SeedingOnSetObserver(t *testing.T) {
	var d dispatcher
	var calls int
	var gotSnapshot MempoolCache
	var gotAdded, gotRemoved []string

	snapshot := NewMempoolCache()
	snapshot.Set("A", NewTransactionExtended("A", 400, 100, 0, nil))

	d.setObserver(func(snap MempoolCache, added, removed []string) {
		calls++
		gotSnapshot, gotAdded, gotRemoved = snap, added, removed
	}, snapshot)

	assert.Equal(t, 1, calls)
	assert.True(t, sameCache(snapshot, gotSnapshot))
	assert.Empty(t, gotAdded)
	assert.Empty(t, gotRemoved)
}

func TestDispatcher_NoEmptyDiffOutsideSeeding(t *testing.T) {
	var d dispatcher
	var calls int
	snapshot := NewMempoolCache()
	d.setObserver(func(snap MempoolCache, added, removed []string) { calls++ }, snapshot)
	assert.Equal(t, 1, calls, "setObserver always fires the seeding callback when obs is non-nil")

	d.notify(snapshot, nil, nil)
	assert.Equal(t, 1, calls, "an empty diff outside seeding must not notify")

	d.notify(snapshot, []string{"A"}, nil)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_NilObserverIsSafe(t *testing.T) {
	var d dispatcher
	snapshot := NewMempoolCache()
	assert.NotPanics(t, func() {
		d.notify(snapshot, []string{"A"}, []string{"B"})
	})
}
