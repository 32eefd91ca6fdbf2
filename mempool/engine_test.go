package mempool

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateWindowSeconds = 60
	return cfg
}

// sameCache reports whether a and b are the same cache reference: a key
// set through a is visible through b. assert.Equal cannot check this,
// since a cmap.ConcurrentMap carries a sharding func and reflect.DeepEqual
// never treats two non-nil funcs as equal.
func sameCache(a, b MempoolCache) bool {
	const probe = "\x00same-cache-probe"
	a.Set(probe, nil)
	defer a.Remove(probe)
	return b.Has(probe)
}

// S1 - cold start, small pool.
func TestRunOnce_ColdStart(t *testing.T) {
	up := newFakeUpstream()
	up.setIds([]string{"A", "B", "C"})
	up.setTx("A", 400, 100)
	up.setTx("B", 800, 200)
	up.setTx("C", 1200, 600)

	e, err := NewEngine(up, testConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	var gotAdded, gotRemoved []string
	e.SetObserver(func(snapshot MempoolCache, added, removed []string) {
		gotAdded, gotRemoved = added, removed
	})

	require.NoError(t, e.RunOnce(context.Background()))

	snap := e.GetSnapshot()
	assert.Equal(t, 3, snap.Count())
	assert.ElementsMatch(t, []string{"A", "B", "C"}, gotAdded)
	assert.Empty(t, gotRemoved)
	assert.True(t, e.IsInSync())

	a, _ := snap.Get("A")
	assert.Equal(t, "100", a.Vsize.String())
	assert.Equal(t, "1", a.FeePerVsize.String())

	b, _ := snap.Get("B")
	assert.Equal(t, "200", b.Vsize.String())
	assert.Equal(t, "1", b.FeePerVsize.String())

	c, _ := snap.Get("C")
	assert.Equal(t, "300", c.Vsize.String())
	assert.Equal(t, "2", c.FeePerVsize.String())
}

// S2 - steady-state diff.
func TestRunOnce_SteadyStateDiff(t *testing.T) {
	up := newFakeUpstream()
	up.setIds([]string{"A", "B", "C"})
	for _, id := range []string{"A", "B", "C"} {
		up.setTx(id, 400, 100)
	}

	e, err := NewEngine(up, testConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.RunOnce(context.Background()))
	require.True(t, e.IsInSync())

	up.setIds([]string{"B", "C", "D", "E"})
	up.setTx("D", 400, 100)
	up.setTx("E", 400, 100)

	var added, removed []string
	e.SetObserver(func(snapshot MempoolCache, a, r []string) { added, removed = a, r })
	require.NoError(t, e.RunOnce(context.Background()))

	assert.ElementsMatch(t, []string{"D", "E"}, added)
	assert.ElementsMatch(t, []string{"A"}, removed)
	assert.Equal(t, 4, e.GetSnapshot().Count())
	assert.True(t, e.IsInSync())
}

// S3 - pass-budget break.
func TestRunOnce_PassBudgetBreak(t *testing.T) {
	up := newFakeUpstream()
	up.delay = 5 * time.Millisecond
	var ids []string
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("tx-%d", i)
		ids = append(ids, id)
		up.setTx(id, 400, 100)
	}
	up.setIds(ids)

	cfg := testConfig()
	cfg.RefreshRateMs = 2 // budget = 20ms, ~4 fetches at 5ms each

	e, err := NewEngine(up, cfg, nil)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.RunOnce(context.Background()))

	snap := e.GetSnapshot()
	assert.Less(t, snap.Count(), len(ids))
	assert.False(t, e.IsInSync())
}

// S4 - flush-protection arms and then cools down.
func TestRunOnce_FlushProtectionArms(t *testing.T) {
	up := newFakeUpstream()
	seed := NewMempoolCache()
	var seedIds []string
	for i := 0; i < 30000; i++ {
		id := fmt.Sprintf("seed-%d", i)
		seed.Set(id, NewTransactionExtended(id, 400, 100, time.Now().Unix(), nil))
		seedIds = append(seedIds, id)
	}

	cfg := testConfig()
	cfg.FlushProtection.Cooldown = 250 * time.Millisecond

	e, err := NewEngine(up, cfg, nil)
	require.NoError(t, err)
	defer e.Close()
	e.SetSnapshot(seed)

	shrunk := seedIds[:1000]
	up.setIds(shrunk)

	require.NoError(t, e.RunOnce(context.Background()))

	assert.Equal(t, 30000, e.GetSnapshot().Count())
	assert.False(t, e.IsInSync())
	assert.Equal(t, latchArmed, e.latch.state)

	require.NoError(t, e.RunOnce(context.Background()))
	assert.Equal(t, 30000, e.GetSnapshot().Count())

	time.Sleep(500 * time.Millisecond)
	require.NoError(t, e.RunOnce(context.Background()))
	assert.Equal(t, 1000, e.GetSnapshot().Count())
}

// S6 - evicted mid-pass.
func TestRunOnce_EvictedMidPass(t *testing.T) {
	up := newFakeUpstream()
	up.setIds([]string{"A", "B"})
	up.setTx("A", 400, 100)
	up.setTx("B", 400, 100)
	up.evict("B")

	e, err := NewEngine(up, testConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.RunOnce(context.Background()))

	snap := e.GetSnapshot()
	assert.Equal(t, 1, snap.Count())
	_, ok := snap.Get("A")
	assert.True(t, ok)
	assert.False(t, e.IsInSync())

	up.setIds([]string{"A"})
	require.NoError(t, e.RunOnce(context.Background()))
	assert.True(t, e.IsInSync())
}

// Round-trip: setSnapshot then getSnapshot returns the same reference,
// and each seeding callback fires with (S, [], []) - the snapshot
// itself, with an empty added/removed pair, never a synthesized
// addition set.
func TestSetSnapshot_RoundTrip(t *testing.T) {
	up := newFakeUpstream()
	e, err := NewEngine(up, testConfig(), nil)
	require.NoError(t, err)
	defer e.Close()

	seed := NewMempoolCache()
	seed.Set("X", NewTransactionExtended("X", 400, 100, time.Now().Unix(), nil))

	var calls int
	var seededSnapshot MempoolCache
	var seededAdded, seededRemoved []string
	e.SetObserver(func(snapshot MempoolCache, added, removed []string) {
		calls++
		seededSnapshot, seededAdded, seededRemoved = snapshot, added, removed
	})

	e.SetSnapshot(seed)

	assert.True(t, sameCache(seed, e.GetSnapshot()))
	assert.Equal(t, 2, calls) // once for SetObserver's own seed, once for SetSnapshot's
	assert.True(t, sameCache(seed, seededSnapshot))
	assert.Empty(t, seededAdded)
	assert.Empty(t, seededRemoved)
}

func TestRate_SteadyState(t *testing.T) {
	cfg := testConfig()
	cfg.RateWindowSeconds = 60

	rt := newRateTracker(cfg.RateWindowSeconds)

	// First tick: 10 arrivals into a still-mostly-empty 60s window must
	// read as 10/60, not 10/1 - the denominator is fixed at the window
	// regardless of how many ticks have elapsed so far.
	for i := 0; i < 10; i++ {
		rt.recordArrival(250)
	}
	rt.tick()
	midRampRate := rt.rate()
	assert.InDelta(t, 10.0/60.0, midRampRate.TxPerSecond, 1e-9)

	for s := 1; s < 60; s++ {
		for i := 0; i < 10; i++ {
			rt.recordArrival(250)
		}
		rt.tick()
	}
	rate := rt.rate()
	assert.Equal(t, float64(10), rate.TxPerSecond)
}
