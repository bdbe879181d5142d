package client

import (
	"context"
	"fmt"
	"sync"

	retry "github.com/avast/retry-go/v4"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/codec"
	"github.com/fiamma-chain/cosmwasm-client-go/config"
	"github.com/fiamma-chain/cosmwasm-client-go/crypto"
	"github.com/fiamma-chain/cosmwasm-client-go/events"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
	"github.com/fiamma-chain/cosmwasm-client-go/registry"
	"github.com/fiamma-chain/cosmwasm-client-go/rpc"
	wasmtx "github.com/fiamma-chain/cosmwasm-client-go/tx"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// WasmClient is the composed entry point: wallet, transport, transaction
// building and event subscription behind one explicitly owned handle.
// Multiple independent clients can coexist in one process.
type WasmClient struct {
	config *config.Config

	rpcClient        rpc.RpcClient
	bytesSigner      crypto.BytesSigner
	builder          *wasmtx.Builder
	metadataProvider *wasmtx.SigningMetadataProvider
	listener         *events.Listener

	// Serializes the finalize-and-broadcast window for this client's account
	// so a sequence number is used at most once per broadcast attempt.
	broadcastMu sync.Mutex

	log *log.Logger
}

// NewWasmClient validates the config and wires up a client. Invalid URLs,
// key material or addresses fail here rather than on first use.
func NewWasmClient(ctx context.Context, clientConfig *config.Config, logger *log.Logger, opts ...Option) (*WasmClient, error) {
	clientConfig.ApplyDefaults()

	if clientConfig.ChainName != "" {
		err := clientConfig.ResolveFromRegistry(ctx, registry.NewRegistryClient(), logger)
		if err != nil {
			return nil, err
		}
	}

	if err := clientConfig.Validate(); err != nil {
		return nil, err
	}

	bytesSigner, err := crypto.NewKeySigner(clientConfig.PrivateKey)
	if err != nil {
		return nil, err
	}

	client := &WasmClient{
		config:      clientConfig,
		bytesSigner: bytesSigner,
		log:         logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	cdc := codec.GetCodec()

	if client.rpcClient == nil {
		rpcClient, err := rpc.NewRpcClient(
			clientConfig.NodeGrpcURI,
			cdc,
			clientConfig.QueryTimeout,
			clientConfig.BroadcastTimeout,
			clientConfig.RetryAttempts,
			clientConfig.RetryDelay,
			logger,
		)
		if err != nil {
			return nil, err
		}
		client.rpcClient = rpcClient
	}

	client.builder = wasmtx.NewBuilder(
		cdc,
		clientConfig.ChainID,
		clientConfig.AddressPrefix,
		clientConfig.FeeDenom,
		clientConfig.GasPrice,
		clientConfig.GasFactor,
		clientConfig.Memo,
		bytesSigner,
		client.rpcClient,
		logger,
	)

	client.metadataProvider = wasmtx.NewSigningMetadataProvider(clientConfig.ChainID, client.rpcClient)

	if client.listener == nil {
		client.listener = events.NewListener(
			clientConfig.WebsocketURI,
			clientConfig.EventBufferSize,
			clientConfig.DecodeFailureThreshold,
			logger,
		)
	}

	return client, nil
}

// Address is the client's bech32 account address.
func (c *WasmClient) Address() string {
	return c.builder.SenderAddress()
}

// ExecuteContract builds, signs and broadcasts a contract execution. An empty
// contract argument falls back to the configured default contract. The
// returned result is pending; use WaitForConfirmation to await inclusion.
func (c *WasmClient) ExecuteContract(ctx context.Context, contract string, msg []byte, funds sdk.Coins) (*wasmtx.TxResult, error) {
	if contract == "" {
		contract = c.config.ContractAddress
	}

	pending, err := c.builder.BuildExecute(contract, msg, funds)
	if err != nil {
		return nil, err
	}

	return c.signAndBroadcast(ctx, pending)
}

// InstantiateContract instantiates an uploaded code id with a JSON init message.
func (c *WasmClient) InstantiateContract(ctx context.Context, codeID uint64, msg []byte, label string, funds sdk.Coins) (*wasmtx.TxResult, error) {
	pending, err := c.builder.BuildInstantiate(codeID, msg, label, funds)
	if err != nil {
		return nil, err
	}

	return c.signAndBroadcast(ctx, pending)
}

// UploadCode stores wasm byte code on chain.
func (c *WasmClient) UploadCode(ctx context.Context, wasmBytes []byte) (*wasmtx.TxResult, error) {
	pending, err := c.builder.BuildUpload(wasmBytes)
	if err != nil {
		return nil, err
	}

	return c.signAndBroadcast(ctx, pending)
}

// SubscribeContractEvents opens a cancellable stream of wasm events for the
// given contract, or the configured default contract when empty. Cancelling
// the context or closing the subscription terminates the socket.
func (c *WasmClient) SubscribeContractEvents(ctx context.Context, contract string) (*events.Subscription, error) {
	if contract == "" {
		contract = c.config.ContractAddress
	}

	return c.listener.Subscribe(ctx, events.Filter{ContractAddress: contract})
}

// GetBlockEvents returns the per-transaction events of a block.
func (c *WasmClient) GetBlockEvents(ctx context.Context, height int64) ([]*rpc.TxEvents, error) {
	return c.rpcClient.GetBlockTxEvents(ctx, height)
}

// WaitForConfirmation polls until the transaction lands in a block, the poll
// budget is exhausted, or the context is cancelled. The broadcast itself
// cannot be cancelled; only this wait can be abandoned.
func (c *WasmClient) WaitForConfirmation(ctx context.Context, txHash string) (*wasmtx.TxResult, error) {
	var height int64
	var code uint32
	var rawLog string

	err := retry.Do(func() error {
		status, err := c.rpcClient.GetTxStatus(ctx, txHash)
		if err != nil {
			return err
		}
		if status.TxResponse == nil || status.TxResponse.Height == 0 {
			return fmt.Errorf("transaction %s not yet confirmed", txHash)
		}

		height = status.TxResponse.Height
		code = status.TxResponse.Code
		rawLog = status.TxResponse.RawLog
		return nil
	}, retry.Delay(c.config.TxPollDelay), retry.Attempts(c.config.TxPollAttempts), retry.DelayType(retry.FixedDelay), retry.Context(ctx))

	if err != nil {
		return nil, clienterr.ErrTimeout.Wrapf("transaction %s was not confirmed within the poll budget: %s", txHash, err)
	}

	result := &wasmtx.TxResult{
		Hash:   txHash,
		Code:   code,
		RawLog: rawLog,
		Height: height,
		Status: wasmtx.StatusConfirmed,
	}
	if code != 0 {
		result.Status = wasmtx.StatusRejected
	}

	c.log.Info().Str("tx hash", txHash).Int64("height", height).Str("status", string(result.Status)).Msg("Transaction poll finished")
	return result, nil
}

// signAndBroadcast finalizes and submits a pending transaction. The cached
// sequence advances only after the node accepts the broadcast; a rejection
// leaves it untouched. A stale sequence triggers exactly one
// refetch-and-retry before surfacing a conflict.
func (c *WasmClient) signAndBroadcast(ctx context.Context, pending *wasmtx.PendingTx) (*wasmtx.TxResult, error) {
	c.broadcastMu.Lock()
	defer c.broadcastMu.Unlock()

	address := c.builder.SenderAddress()
	retriedSequence := false

	for {
		metadata, err := c.metadataProvider.SigningMetadataForAccount(ctx, address)
		if err != nil {
			return nil, err
		}

		signed, err := c.builder.Finalize(ctx, pending, metadata)
		if err != nil {
			return nil, err
		}

		response, err := c.rpcClient.Broadcast(ctx, signed.Bytes)
		if err != nil {
			// Transport failure before the node accepted anything. The cached
			// sequence is untouched.
			return nil, err
		}

		txResponse := response.TxResponse
		switch {
		case txResponse.Code == 0:
			c.metadataProvider.OnBroadcastAccepted(metadata)
			c.log.Info().Str("tx hash", txResponse.TxHash).Uint64("sequence", signed.Sequence).Msg("Transaction broadcasted")

			return &wasmtx.TxResult{
				Hash:   txResponse.TxHash,
				Status: wasmtx.StatusPending,
			}, nil

		case isSequenceMismatch(txResponse):
			c.metadataProvider.Invalidate(address)
			if retriedSequence {
				return nil, clienterr.ErrSequenceConflict.Wrapf("broadcast from %s at sequence %d: %s", address, signed.Sequence, txResponse.RawLog)
			}
			retriedSequence = true
			c.log.Warn().Str("address", address).Uint64("sequence", signed.Sequence).Msg("Stale sequence detected, refetching account state")

		default:
			// Node-side rejection. Never auto-retried.
			return &wasmtx.TxResult{
					Hash:   txResponse.TxHash,
					Code:   txResponse.Code,
					RawLog: txResponse.RawLog,
					Status: wasmtx.StatusRejected,
				}, clienterr.ErrBroadcastRejected.Wrapf(
					"broadcast from %s rejected with code %d: %s", address, txResponse.Code, txResponse.RawLog)
		}
	}
}

func isSequenceMismatch(txResponse *sdk.TxResponse) bool {
	return txResponse.Codespace == sdkerrors.RootCodespace && txResponse.Code == sdkerrors.ErrWrongSequence.ABCICode()
}
