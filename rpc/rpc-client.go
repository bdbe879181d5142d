package rpc

import (
	"context"

	"github.com/cosmos/cosmos-sdk/client"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
)

// RpcClient handles gRPC calls to the node. Queries are retried a bounded
// number of times with backoff. Broadcast is submitted exactly once.
type RpcClient interface {
	// Broadcast submits signed transaction bytes in sync mode. The response
	// carries the node's result code and raw log. Never retried internally.
	Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error)

	// SimulateTx estimates gas for an unsigned transaction, scaled by gasFactor.
	SimulateTx(ctx context.Context, tx authsigning.Tx, txConfig client.TxConfig, gasFactor float64) (*SimulationResult, error)

	// GetAccountData fetches the account number and current sequence.
	GetAccountData(ctx context.Context, address string) (*AccountData, error)

	// GetTxStatus fetches the current state of a broadcasted transaction.
	GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error)

	GetLatestHeight(ctx context.Context) (int64, error)

	// GetBlockTxEvents returns the per-transaction events of a block, in the
	// order the transactions appear in the block.
	GetBlockTxEvents(ctx context.Context, height int64) ([]*TxEvents, error)
}
