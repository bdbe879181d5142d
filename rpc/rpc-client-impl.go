package rpc

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	comettypes "github.com/cometbft/cometbft/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/log"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/grpc/tmservice"
	"github.com/cosmos/cosmos-sdk/codec"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// rpcClientImpl is the private and default implementation of RpcClient.
type rpcClientImpl struct {
	cdc *codec.ProtoCodec

	authClient      authtypes.QueryClient
	tmServiceClient tmservice.ServiceClient
	txClient        txtypes.ServiceClient

	queryTimeout     time.Duration
	broadcastTimeout time.Duration

	attempts retry.Option
	delay    retry.Option

	log *log.Logger
}

// Ensure that rpcClientImpl implements RpcClient
var _ RpcClient = (*rpcClientImpl)(nil)

// NewRpcClient makes a new RpcClient backed by a shared gRPC channel.
func NewRpcClient(
	nodeGrpcURI string,
	cdc *codec.ProtoCodec,
	queryTimeout time.Duration,
	broadcastTimeout time.Duration,
	retryAttempts uint,
	retryDelay time.Duration,
	log *log.Logger,
) (RpcClient, error) {
	conn, err := getGrpcConnection(nodeGrpcURI)
	if err != nil {
		log.Error().Str("grpc url", nodeGrpcURI).Err(err).Msg("Unable to connect to gRPC")
		return nil, clienterr.ErrUnavailable.Wrapf("failed to open grpc channel to %s: %s", nodeGrpcURI, err)
	}

	return &rpcClientImpl{
		cdc: cdc,

		authClient:      authtypes.NewQueryClient(conn),
		tmServiceClient: tmservice.NewServiceClient(conn),
		txClient:        txtypes.NewServiceClient(conn),

		queryTimeout:     queryTimeout,
		broadcastTimeout: broadcastTimeout,

		attempts: retry.Attempts(retryAttempts),
		delay:    retry.Delay(retryDelay),

		log: log,
	}, nil
}

func (r *rpcClientImpl) Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error) {
	broadcastCtx, cancel := context.WithTimeout(ctx, r.broadcastTimeout)
	defer cancel()

	request := &txtypes.BroadcastTxRequest{
		Mode:    txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
		TxBytes: txBytes,
	}

	response, err := r.txClient.BroadcastTx(broadcastCtx, request)
	if err != nil {
		return nil, wrapTransportError("broadcast", err)
	}

	return response, nil
}

func (r *rpcClientImpl) GetAccountData(ctx context.Context, address string) (*AccountData, error) {
	var accountData *AccountData
	var err error

	err = retry.Do(func() error {
		accountData, err = r.getAccountData(ctx, address)
		return err
	}, r.delay, r.attempts, retry.Context(ctx))

	return accountData, err
}

// private function without retries
func (r *rpcClientImpl) getAccountData(ctx context.Context, address string) (*AccountData, error) {
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := &authtypes.QueryAccountRequest{Address: address}
	res, err := r.authClient.Account(queryCtx, query)
	if err != nil {
		return nil, wrapTransportError(fmt.Sprintf("account query for %s", address), err)
	}

	var account authtypes.AccountI
	if err := r.cdc.UnpackAny(res.Account, &account); err != nil {
		return nil, clienterr.ErrDecode.Wrapf("account response for %s: %s", address, err)
	}

	return &AccountData{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}

func (r *rpcClientImpl) SimulateTx(
	ctx context.Context,
	tx authsigning.Tx,
	txConfig client.TxConfig,
	gasFactor float64,
) (*SimulationResult, error) {
	var simulationResult *SimulationResult
	var err error

	err = retry.Do(func() error {
		simulationResult, err = r.simulateTx(ctx, tx, txConfig, gasFactor)
		return err
	}, r.delay, r.attempts, retry.Context(ctx))

	return simulationResult, err
}

// private function without retries
func (r *rpcClientImpl) simulateTx(
	ctx context.Context,
	tx authsigning.Tx,
	txConfig client.TxConfig,
	gasFactor float64,
) (*SimulationResult, error) {
	encoder := txConfig.TxEncoder()
	txBytes, err := encoder(tx)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := &txtypes.SimulateRequest{
		TxBytes: txBytes,
	}
	simulationResponse, err := r.txClient.Simulate(queryCtx, query)
	if err != nil {
		return nil, wrapTransportError("tx simulation", err)
	}

	return &SimulationResult{
		GasRecommendation: uint64(math.Ceil(float64(simulationResponse.GasInfo.GasUsed) * gasFactor)),
	}, nil
}

func (r *rpcClientImpl) GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	request := &txtypes.GetTxRequest{Hash: txHash}
	response, err := r.txClient.GetTx(queryCtx, request)
	if err != nil {
		return nil, wrapTransportError(fmt.Sprintf("tx status for %s", txHash), err)
	}
	return response, nil
}

func (r *rpcClientImpl) GetLatestHeight(ctx context.Context) (int64, error) {
	var height int64
	var err error

	err = retry.Do(func() error {
		height, err = r.getLatestHeight(ctx)
		return err
	}, r.delay, r.attempts, retry.Context(ctx))

	return height, err
}

func (r *rpcClientImpl) getLatestHeight(ctx context.Context) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	response, err := r.tmServiceClient.GetLatestBlock(queryCtx, &tmservice.GetLatestBlockRequest{})
	if err != nil {
		return 0, wrapTransportError("latest block query", err)
	}

	return response.SdkBlock.Header.Height, nil
}

func (r *rpcClientImpl) GetBlockTxEvents(ctx context.Context, height int64) ([]*TxEvents, error) {
	var txEvents []*TxEvents
	var err error

	err = retry.Do(func() error {
		txEvents, err = r.getBlockTxEvents(ctx, height)
		return err
	}, r.delay, r.attempts, retry.Context(ctx))

	return txEvents, err
}

// private function without retries
func (r *rpcClientImpl) getBlockTxEvents(ctx context.Context, height int64) ([]*TxEvents, error) {
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	blockResponse, err := r.tmServiceClient.GetBlockByHeight(queryCtx, &tmservice.GetBlockByHeightRequest{Height: height})
	if err != nil {
		return nil, wrapTransportError(fmt.Sprintf("block query for height %d", height), err)
	}

	txEvents := []*TxEvents{}
	for _, txBytes := range blockResponse.SdkBlock.Data.Txs {
		txHash := strings.ToUpper(hex.EncodeToString(comettypes.Tx(txBytes).Hash()))

		txStatus, err := r.GetTxStatus(ctx, txHash)
		if err != nil {
			return nil, err
		}

		txEvents = append(txEvents, &TxEvents{
			TxHash: txHash,
			Height: height,
			Events: txStatus.TxResponse.Events,
		})
	}

	return txEvents, nil
}

// wrapTransportError maps gRPC failures to client error kinds, keeping the
// operation name for context.
func wrapTransportError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return clienterr.ErrTimeout.Wrapf("%s: %s", operation, err)
	}

	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return clienterr.ErrTimeout.Wrapf("%s: %s", operation, err)
	case codes.NotFound:
		// Not a transport failure. Expected while polling for unconfirmed txs.
		return fmt.Errorf("%s: %w", operation, err)
	default:
		return clienterr.ErrUnavailable.Wrapf("%s: %s", operation, err)
	}
}
