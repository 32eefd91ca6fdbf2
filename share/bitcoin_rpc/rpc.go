package bitcoin_rpc

import (
	"fmt"
	"time"

	"github.com/OLProtocol/go-bitcoind"
	"github.com/avast/retry-go"
)

// BitcoindRPC implements BitcoinRPC against a real bitcoind (or
// bitcoind-compatible) node over JSON-RPC.
type BitcoindRPC struct {
	bitcoind *bitcoind.Bitcoind
}

// InitBitconRpc dials the node and installs the result as the
// process-wide ShareBitconRpc. The connection itself is retried a
// handful of times with backoff since it usually runs at process
// startup, racing the node's own boot; once a pass is underway the
// sync engine aborts on the first failure instead of retrying (see
// mempool.Engine.RunOnce).
func InitBitconRpc(host string, port int, user, passwd string, useSSL bool) error {
	var client *bitcoind.Bitcoind
	err := retry.Do(
		func() error {
			var dialErr error
			client, dialErr = bitcoind.New(host, port, user, passwd, useSSL, 120)
			return dialErr
		},
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("connect to bitcoind %s:%d: %w", host, port, err)
	}
	ShareBitconRpc = &BitcoindRPC{bitcoind: client}
	return nil
}

func (p *BitcoindRPC) GetTx(txid string) (*bitcoind.RawTransaction, error) {
	resp, err := p.bitcoind.GetRawTransaction(txid, true)
	if err != nil {
		return nil, err
	}
	ret, ok := resp.(bitcoind.RawTransaction)
	if !ok {
		return nil, fmt.Errorf("invalid RawTransaction type")
	}
	return &ret, nil
}

func (p *BitcoindRPC) GetRawTx(txid string) (string, error) {
	resp, err := p.bitcoind.GetRawTransaction(txid, false)
	if err != nil {
		return "", err
	}
	ret, ok := resp.(string)
	if !ok {
		return "", fmt.Errorf("invalid string type")
	}
	return ret, nil
}

func (p *BitcoindRPC) GetBlockCount() (uint64, error) {
	return p.bitcoind.GetBlockCount()
}

func (p *BitcoindRPC) GetBestBlockHash() (string, error) {
	return p.bitcoind.GetBestBlockhash()
}

func (p *BitcoindRPC) GetRawBlock(blockHash string) (string, error) {
	return p.bitcoind.GetRawBlock(blockHash)
}

func (p *BitcoindRPC) GetBlockHash(height uint64) (string, error) {
	return p.bitcoind.GetBlockHash(height)
}

func (p *BitcoindRPC) GetBlockHeader(blockhash string) (*bitcoind.BlockHeader, error) {
	return p.bitcoind.GetBlockheader(blockhash)
}

// GetMemPool lists the txids currently pending, unordered, exactly as
// the node reports them. Duplicates are not possible on the wire but
// callers must not assume any particular ordering.
func (p *BitcoindRPC) GetMemPool() ([]string, error) {
	return p.bitcoind.GetRawMempool()
}

func (p *BitcoindRPC) GetMemPoolEntry(txid string) (*bitcoind.MemPoolEntry, error) {
	return p.bitcoind.GetMemPoolEntry(txid)
}

func (p *BitcoindRPC) GetMemPoolInfo() (*bitcoind.MemPoolInfo, error) {
	info, err := p.bitcoind.GetMemPoolInfo()
	if err != nil {
		return nil, err
	}
	return info, nil
}
