package mempool

import "context"

// Upstream is the node-facing adapter the engine drives each pass. It
// is deliberately the narrowest surface that lets the engine diff and
// enrich a pool: list what's pending, fetch one transaction's detail,
// and report the node's own summary. nodeadapter implements this over
// share/bitcoin_rpc; tests implement it with an in-memory fake.
type Upstream interface {
	// ListPendingIds returns every txid the upstream currently considers
	// pending, unordered. The engine treats the result as the ground
	// truth for one pass's classification phase.
	ListPendingIds(ctx context.Context) ([]string, error)

	// GetTransaction fetches one pending transaction's detail. A txid
	// that has since left the pool must return ErrTxNotFound, which the
	// engine treats as a skip rather than a pass failure.
	GetTransaction(ctx context.Context, txid string) (*TransactionExtended, error)

	// GetMempoolInfo returns the upstream's self-reported summary. It is
	// sourced independently of ListPendingIds and may briefly disagree
	// with it, most visibly right after a flush.
	GetMempoolInfo(ctx context.Context) (*MempoolInfo, error)
}
