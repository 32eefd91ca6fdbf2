// Package nodeadapter implements mempool.Upstream against a Bitcoin
// Core-compatible node reached through share/bitcoin_rpc. It is the only
// package in this repo that knows the node's wire vocabulary
// (satoshis-as-float-BTC, vsize vs weight, the node's not-found error
// text); everything above mempool.Upstream stays node-agnostic.
package nodeadapter

import (
	"context"
	"strings"
	"time"

	"github.com/sat20-labs/mempoolsync/mempool"
	"github.com/sat20-labs/mempoolsync/share/bitcoin_rpc"
)

const satoshisPerBTC = 1e8

// notFoundMarker is the substring Bitcoin Core's RPC server puts in the
// error it returns for getmempoolentry/getrawtransaction on an unknown
// txid. It is part of the node's RPC contract, not an implementation
// detail of any particular client library.
const notFoundMarker = "no such mempool or blockchain transaction"

// Adapter implements mempool.Upstream over a live bitcoind connection.
type Adapter struct {
	rpc bitcoin_rpc.BitcoinRPC
}

// New wraps the given RPC client. Pass bitcoin_rpc.ShareBitconRpc once
// it has been initialized by bitcoin_rpc.InitBitconRpc.
func New(rpc bitcoin_rpc.BitcoinRPC) *Adapter {
	return &Adapter{rpc: rpc}
}

func (a *Adapter) ListPendingIds(ctx context.Context) ([]string, error) {
	return a.rpc.GetMemPool()
}

func (a *Adapter) GetTransaction(ctx context.Context, txid string) (*mempool.TransactionExtended, error) {
	entry, err := a.rpc.GetMemPoolEntry(txid)
	if err != nil {
		if isNotFound(err) {
			return nil, mempool.ErrTxNotFound
		}
		return nil, err
	}

	_, err = a.rpc.GetTx(txid)
	if err != nil {
		if isNotFound(err) {
			return nil, mempool.ErrTxNotFound
		}
		return nil, err
	}

	fee := btcToSats(entry.Fees.Base)
	weight := entry.Weight

	return mempool.NewTransactionExtended(txid, weight, fee, time.Now().Unix(), entry), nil
}

func (a *Adapter) GetMempoolInfo(ctx context.Context) (*mempool.MempoolInfo, error) {
	info, err := a.rpc.GetMemPoolInfo()
	if err != nil {
		return nil, err
	}
	return &mempool.MempoolInfo{
		Size:  int(info.Size),
		Bytes: int(info.Bytes),
	}, nil
}

func isNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), notFoundMarker)
}

func btcToSats(btc float64) int64 {
	return int64(btc*satoshisPerBTC + 0.5)
}
