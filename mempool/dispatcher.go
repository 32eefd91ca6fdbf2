package mempool

import "sync"

// Observer receives the published snapshot and the added/removed txids
// of a completed pass. added and removed are disjoint; a txid never
// appears in both within the same call. Implementations must not block
// for long - the engine calls Observer synchronously from the end of
// RunOnce.
type Observer func(snapshot MempoolCache, added, removed []string)

// dispatcher holds the engine's single observer. It exists as its own
// type, rather than a bare field on Engine, because of the seeding
// semantics in SetObserver/SetSnapshot: swapping the observer and
// swapping the cache both need to agree on what "the current snapshot"
// means at the instant of the swap, and doing that inline on Engine
// invites races between a RunOnce in flight and a caller reconfiguring
// it.
type dispatcher struct {
	mu       sync.Mutex
	observer Observer
}

// setObserver installs obs as the new observer and, if obs is non-nil,
// immediately invokes it once with snapshot and an empty added/removed
// pair, so a newly attached consumer doesn't have to wait for the next
// pass to learn what's already in the pool. This is the sole case of
// an empty-diff callback.
func (d *dispatcher) setObserver(obs Observer, snapshot MempoolCache) {
	d.mu.Lock()
	d.observer = obs
	d.mu.Unlock()
	if obs != nil {
		obs(snapshot, nil, nil)
	}
}

// notify delivers one pass's diff to the current observer, if any.
func (d *dispatcher) notify(snapshot MempoolCache, added, removed []string) {
	d.mu.Lock()
	obs := d.observer
	d.mu.Unlock()
	if obs == nil {
		return
	}
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	obs(snapshot, added, removed)
}
