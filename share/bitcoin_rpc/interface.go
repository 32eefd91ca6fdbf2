package bitcoin_rpc

import "github.com/OLProtocol/go-bitcoind"

// BitcoinRPC is the subset of the node's JSON-RPC surface this project
// depends on. Kept narrow on purpose: callers never reach for the
// underlying bitcoind client directly, so a mock or a different
// backend only has to satisfy this interface.
type BitcoinRPC interface {
	GetTx(txid string) (*bitcoind.RawTransaction, error)
	GetRawTx(txid string) (string, error)

	GetBlockCount() (uint64, error)
	GetBestBlockHash() (string, error)
	GetBlockHash(height uint64) (string, error)
	GetRawBlock(blockHash string) (string, error)
	GetBlockHeader(blockhash string) (*bitcoind.BlockHeader, error)

	GetMemPool() (txIds []string, err error)
	GetMemPoolEntry(txid string) (*bitcoind.MemPoolEntry, error)
	GetMemPoolInfo() (*bitcoind.MemPoolInfo, error)
}

// ShareBitconRpc is the process-wide RPC client, wired up once by
// InitBitconRpc. Everything under share/ and nodeadapter/ reaches the
// node through this handle instead of carrying its own connection.
var ShareBitconRpc BitcoinRPC
