package server

import (
	"sort"

	"github.com/sat20-labs/mempoolsync/mempool"
)

// Model adapts an *mempool.Engine to the shapes the handlers serialize.
// It never mutates the engine, it only reads snapshots and projects
// them; all synchronization semantics stay in mempool.
type Model struct {
	engine *mempool.Engine
}

func NewModel(engine *mempool.Engine) *Model {
	return &Model{engine: engine}
}

type TxSummary struct {
	Txid        string `json:"txid"`
	Weight      int64  `json:"weight"`
	Fee         int64  `json:"fee"`
	Vsize       string `json:"vsize"`
	FeePerVsize string `json:"feePerVsize"`
	FirstSeen   int64  `json:"firstSeen"`
}

func toTxSummary(tx *mempool.TransactionExtended) *TxSummary {
	return &TxSummary{
		Txid:        tx.Txid,
		Weight:      tx.Weight,
		Fee:         tx.Fee,
		Vsize:       tx.Vsize.String(),
		FeePerVsize: tx.FeePerVsize.String(),
		FirstSeen:   tx.FirstSeen,
	}
}

// GetSnapshot returns every cached transaction, sorted by txid for a
// stable response across calls with an otherwise-unchanged cache.
func (m *Model) GetSnapshot() []*TxSummary {
	cache := m.engine.GetSnapshot()
	out := make([]*TxSummary, 0, cache.Count())
	for _, tx := range cache.Items() {
		out = append(out, toTxSummary(tx))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Txid < out[j].Txid })
	return out
}

func (m *Model) GetInfo() mempool.MempoolInfo {
	return m.engine.GetInfo()
}

func (m *Model) GetRate() mempool.Rate {
	return m.engine.GetRate()
}

func (m *Model) GetLatest() []any {
	return m.engine.GetLatest()
}

func (m *Model) FirstSeenOf(ids []string) []int64 {
	return m.engine.FirstSeenOf(ids)
}

func (m *Model) IsInSync() bool {
	return m.engine.IsInSync()
}
