// Package mempool implements the synchronization engine described in the
// design notes: it turns a stateless "list pending ids" + "fetch tx by id"
// upstream into a bounded-latency local replica of a node's mempool, with
// arrival-rate statistics and protection against spurious upstream
// flushes (e.g. a node restart reporting a near-empty pool).
//
// Parsing or validating transaction bytes, peer-to-peer gossip, consensus
// and persistence across process restart are explicitly not this
// package's concern; the upstream payload is carried through opaquely.
package mempool

import (
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sat20-labs/mempoolsync/common"
)

// TransactionExtended is the cached, enriched form of a pending
// transaction. It is immutable once inserted: Vsize and FeePerVsize are
// derived exactly once at ingest time and never recomputed, even if the
// node later revises its own fee estimate for the same txid.
type TransactionExtended struct {
	Txid string
	// Weight is the consensus weight unit reported by the node.
	Weight int64
	// Fee is denominated in base units (satoshis), not BTC.
	Fee int64
	// Vsize = Weight/4, computed once at ingest.
	Vsize *common.Decimal
	// FeePerVsize = Fee/Vsize, or the zero Decimal when Fee is absent
	// or Vsize is zero. See the open question in the design notes:
	// this mirrors what the upstream does, it is not a recommendation.
	FeePerVsize *common.Decimal
	// FirstSeen is wall-clock seconds at local ingest time, not
	// anything reported by the node.
	FirstSeen int64
	// Raw is the opaque upstream payload, passed through to consumers
	// unexamined.
	Raw any
}

// MempoolCache maps txid to TransactionExtended. It is safe for
// concurrent use; the sync engine is its sole writer, consumers only
// read from snapshots handed to them.
type MempoolCache = cmap.ConcurrentMap[string, *TransactionExtended]

// NewMempoolCache returns an empty cache.
func NewMempoolCache() MempoolCache {
	return cmap.New[*TransactionExtended]()
}

// cloneCache returns a new cache seeded with the given entries. Used by
// RunOnce to build the pass-local newCache without mutating the
// published one until step 7.
func cloneCache(from MempoolCache, keep func(txid string) bool) MempoolCache {
	to := NewMempoolCache()
	for txid, tx := range from.Items() {
		if keep == nil || keep(txid) {
			to.Set(txid, tx)
		}
	}
	return to
}

// MempoolInfo is the upstream's self-reported pool summary. It is
// replaced atomically on refresh and is independent of MempoolCache -
// the two can disagree briefly, e.g. immediately after a flush.
type MempoolInfo struct {
	Size  int
	Bytes int
}

// Stripper projects a TransactionExtended down to whatever shape the
// latest-arrivals consumer wants (e.g. a websocket payload). The engine
// never inspects the result, it just stores it.
type Stripper func(tx *TransactionExtended) any

// Rate is the smoothed arrival-rate snapshot produced by the rate
// tracker's 1Hz tick.
type Rate struct {
	TxPerSecond     float64
	VBytesPerSecond int64
}
