package mempool

import (
	"context"
	"sync"
	"time"
)

// fakeUpstream is an in-memory Upstream used by the engine tests. ids
// and weights/fees are keyed by txid; evicted marks ids that should
// answer GetTransaction with ErrTxNotFound even though they are still
// listed (simulating eviction between listing and fetch).
type fakeUpstream struct {
	mu      sync.Mutex
	ids     []string
	weight  map[string]int64
	fee     map[string]int64
	evicted map[string]bool
	info    MempoolInfo
	delay   time.Duration
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		weight:  make(map[string]int64),
		fee:     make(map[string]int64),
		evicted: make(map[string]bool),
	}
}

func (f *fakeUpstream) setIds(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = ids
}

func (f *fakeUpstream) setTx(txid string, weight, fee int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weight[txid] = weight
	f.fee[txid] = fee
}

func (f *fakeUpstream) evict(txid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicted[txid] = true
}

func (f *fakeUpstream) ListPendingIds(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out, nil
}

func (f *fakeUpstream) GetTransaction(ctx context.Context, txid string) (*TransactionExtended, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.evicted[txid] {
		return nil, ErrTxNotFound
	}
	weight, ok := f.weight[txid]
	if !ok {
		return nil, ErrTxNotFound
	}
	return NewTransactionExtended(txid, weight, f.fee[txid], time.Now().Unix(), nil), nil
}

func (f *fakeUpstream) GetMempoolInfo(ctx context.Context) (*MempoolInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info := f.info
	return &info, nil
}
