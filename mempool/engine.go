package mempool

import (
	"context"
	"sync"
	"time"

	"github.com/sat20-labs/mempoolsync/common"
)

var log = common.GetLoggerEntry("mempool")

// Engine orchestrates reconciliation passes against a single Upstream
// and owns the cache, the in-sync flag, the flush-protection latch, the
// rate tracker and the latest-arrivals ring. One Engine instance serves
// one network; a supervisor outside this package is responsible for
// running several side by side and for calling RunOnce on a cadence.
type Engine struct {
	cfg      Config
	upstream Upstream

	mu     sync.RWMutex
	cache  MempoolCache
	info   MempoolInfo
	inSync bool

	latch    *flushLatch
	rates    *rateTracker
	latest   *latestArrivals
	dispatch dispatcher
}

// NewEngine validates cfg and wires up an Engine ready to run, starting
// its background rate-tracker tick. Callers must call Close when done
// to stop that goroutine and the latch's cooldown timer.
func NewEngine(upstream Upstream, cfg Config, stripper Stripper) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		upstream: upstream,
		cache:    NewMempoolCache(),
		latch:    newFlushLatch(cfg.FlushProtection),
		rates:    newRateTracker(cfg.RateWindowSeconds),
		latest:   newLatestArrivals(cfg.latestCapacity(), stripper),
	}
	go e.rates.run()
	return e, nil
}

// Close stops the engine's background timers. RunOnce must not be
// called concurrently with or after Close.
func (e *Engine) Close() {
	e.rates.stop()
	e.latch.stop()
}

// GetSnapshot returns the current cache by reference. Callers must
// treat it as read-only until their next observer callback; the engine
// never mutates a published cache in place, it only ever swaps in a
// freshly built one (see RunOnce step 7).
func (e *Engine) GetSnapshot() MempoolCache {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache
}

// SetSnapshot rehydrates the cache from an externally owned source,
// e.g. at process start from a persistence layer this package does not
// own, and fires the seeding callback with the new snapshot and an
// empty added/removed pair.
func (e *Engine) SetSnapshot(cache MempoolCache) {
	e.mu.Lock()
	e.cache = cache
	e.mu.Unlock()
	e.dispatch.setObserver(e.currentObserver(), cache)
}

// SetObserver registers obs as the single change observer, replacing
// any previous registration, and immediately fires a seeding callback
// with the current snapshot and an empty added/removed pair.
func (e *Engine) SetObserver(obs Observer) {
	e.mu.RLock()
	cache := e.cache
	e.mu.RUnlock()
	e.dispatch.setObserver(obs, cache)
}

func (e *Engine) currentObserver() Observer {
	e.dispatch.mu.Lock()
	defer e.dispatch.mu.Unlock()
	return e.dispatch.observer
}

// GetInfo returns the last mempool summary fetched by RefreshInfo.
func (e *Engine) GetInfo() MempoolInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

// RefreshInfo fetches and stores the upstream's current summary. It is
// independent of RunOnce and may be called on its own cadence.
func (e *Engine) RefreshInfo(ctx context.Context) error {
	info, err := e.upstream.GetMempoolInfo(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.info = *info
	e.mu.Unlock()
	return nil
}

// GetRate returns the rate tracker's last smoothed snapshot.
func (e *Engine) GetRate() Rate {
	return e.rates.rate()
}

// GetLatest returns a copy of the latest-arrivals ring, newest first.
func (e *Engine) GetLatest() []any {
	return e.latest.snapshot()
}

// FirstSeenOf returns, for each requested txid, its FirstSeen timestamp
// if it is currently cached, or 0 if it is unknown. The result is a
// parallel array matching ids' order and length.
func (e *Engine) FirstSeenOf(ids []string) []int64 {
	e.mu.RLock()
	cache := e.cache
	e.mu.RUnlock()
	out := make([]int64, len(ids))
	for i, id := range ids {
		if tx, ok := cache.Get(id); ok {
			out[i] = tx.FirstSeen
		}
	}
	return out
}

// IsInSync reports whether some pass has seen the cache size match the
// upstream listing size. Once set, the flag stays set across later
// passes until flush protection arms and clears it.
func (e *Engine) IsInSync() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inSync
}

// RunOnce executes one reconciliation pass. It performs all upstream
// I/O before taking the write lock; cache mutation happens once, at the
// end, so a ctx cancellation observed before that point leaves the
// published cache untouched.
func (e *Engine) RunOnce(ctx context.Context) error {
	start := time.Now()

	// 1. Snapshot phase.
	e.mu.RLock()
	before := e.cache
	beforeSize := before.Count()
	wasInSync := e.inSync
	e.mu.RUnlock()

	upstreamIds, err := e.upstream.ListPendingIds(ctx)
	if err != nil {
		log.WithError(err).Warn("list pending ids failed, pass aborted")
		return err
	}

	upstreamSet := make(map[string]struct{}, len(upstreamIds))
	for _, id := range upstreamIds {
		upstreamSet[id] = struct{}{}
	}

	budget := e.cfg.passBudget()

	// 2. Ingest phase. Mutations land in a pass-local working copy, never
	// in `before`, so a reader mid-pass via GetSnapshot never observes a
	// half-ingested cache.
	working := cloneCache(before, nil)
	var added []string
	for _, id := range upstreamIds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := before.Get(id); ok {
			continue
		}
		tx, err := e.upstream.GetTransaction(ctx, id)
		if err == ErrTxNotFound {
			continue
		}
		if err != nil {
			log.WithError(err).WithField("txid", id).Warn("get transaction failed, pass aborted")
			return err
		}
		working.Set(id, tx)
		added = append(added, id)
		if wasInSync {
			e.rates.recordArrival(tx.Vsize.IntegerPart())
		}
		if time.Since(start) > budget {
			break
		}
	}

	// 3. Flush-protection phase.
	armed := e.latch.tryArm(beforeSize, len(upstreamIds))
	if armed {
		wasInSync = false
		log.WithFields(map[string]any{
			"beforeSize": beforeSize,
			"upstream":   len(upstreamIds),
		}).Warn("flush protection armed, suppressing deletions")
	}
	state := e.latch.observe()

	// 4. Classification phase.
	var newCache MempoolCache
	var removed []string
	if state == latchArmed {
		newCache = working
	} else {
		newCache = cloneCache(working, func(txid string) bool {
			_, ok := upstreamSet[txid]
			return ok
		})
		for txid := range before.Items() {
			if _, ok := upstreamSet[txid]; !ok {
				removed = append(removed, txid)
			}
		}
	}

	// 5. Latest-arrivals update.
	for _, id := range added {
		if tx, ok := newCache.Get(id); ok {
			e.latest.push(tx)
		}
	}

	// 6. Sync detection.
	inSync := wasInSync
	if !inSync && len(upstreamIds) == newCache.Count() {
		inSync = true
	}

	// 7. Publish phase.
	e.mu.Lock()
	e.cache = newCache
	e.inSync = inSync
	e.mu.Unlock()

	e.dispatch.notify(newCache, added, removed)
	return nil
}
