package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/codec"
	"github.com/fiamma-chain/cosmwasm-client-go/crypto"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
	"github.com/fiamma-chain/cosmwasm-client-go/rpc"

	"github.com/cosmos/cosmos-sdk/client"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
)

const (
	testPrivateKeyHex = "c9f2b6e1d0a54b8a9c3f71205e84d6b1fa0c2d93887e6a5f4b31c8d27e90a416"
	testChainID       = "fiamma-testnet-1"
	testPrefix        = "wasm"
)

// stubRpcClient serves canned account data and gas estimates.
type stubRpcClient struct {
	gasRecommendation uint64
	accountData       *rpc.AccountData
	accountFetches    int
}

var _ rpc.RpcClient = (*stubRpcClient)(nil)

func (s *stubRpcClient) Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error) {
	return nil, errors.New("not supported")
}

func (s *stubRpcClient) SimulateTx(ctx context.Context, tx authsigning.Tx, txConfig client.TxConfig, gasFactor float64) (*rpc.SimulationResult, error) {
	return &rpc.SimulationResult{GasRecommendation: s.gasRecommendation}, nil
}

func (s *stubRpcClient) GetAccountData(ctx context.Context, address string) (*rpc.AccountData, error) {
	s.accountFetches++
	if s.accountData == nil {
		return nil, errors.New("no account data")
	}
	data := *s.accountData
	data.Address = address
	return &data, nil
}

func (s *stubRpcClient) GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	return nil, errors.New("not supported")
}

func (s *stubRpcClient) GetLatestHeight(ctx context.Context) (int64, error) {
	return 0, errors.New("not supported")
}

func (s *stubRpcClient) GetBlockTxEvents(ctx context.Context, height int64) ([]*rpc.TxEvents, error) {
	return nil, errors.New("not supported")
}

func newTestBuilder(t *testing.T, rpcClient rpc.RpcClient) (*Builder, crypto.BytesSigner) {
	t.Helper()

	signer, err := crypto.NewKeySigner(testPrivateKeyHex)
	require.NoError(t, err)

	builder := NewBuilder(
		codec.GetCodec(),
		testChainID,
		testPrefix,
		"ufia",
		0.025,
		1.2,
		"test memo",
		signer,
		rpcClient,
		log.NewLogger("error"),
	)
	return builder, signer
}

func testContractAddress(t *testing.T) string {
	t.Helper()

	// Any valid bech32 address with the chain prefix works as a contract.
	signer, err := crypto.NewKeySigner("aaaa1111bbbb2222cccc3333dddd4444eeee5555ffff6666aaaa7777bbbb8888")
	require.NoError(t, err)
	return signer.GetAddress(testPrefix)
}

func TestBuildExecuteValidation(t *testing.T) {
	builder, _ := newTestBuilder(t, &stubRpcClient{})
	contract := testContractAddress(t)

	pending, err := builder.BuildExecute(contract, []byte(`{"transfer":{"recipient":"wasm1abc","amount":"10"}}`), nil)
	require.NoError(t, err)
	require.Len(t, pending.Msgs, 1)
	require.Equal(t, "test memo", pending.Memo)

	_, err = builder.BuildExecute("", []byte(`{}`), nil)
	require.True(t, errors.Is(err, clienterr.ErrInvalidAddress))

	_, err = builder.BuildExecute("garbage-address", []byte(`{}`), nil)
	require.True(t, errors.Is(err, clienterr.ErrInvalidAddress))

	_, err = builder.BuildExecute(contract, []byte(`not json`), nil)
	require.True(t, errors.Is(err, clienterr.ErrDecode))
}

func TestBuildInstantiateValidation(t *testing.T) {
	builder, _ := newTestBuilder(t, &stubRpcClient{})

	pending, err := builder.BuildInstantiate(7, []byte(`{"denom":"ufia","operators":[]}`), "bridge", nil)
	require.NoError(t, err)
	require.Len(t, pending.Msgs, 1)

	_, err = builder.BuildInstantiate(0, []byte(`{}`), "bridge", nil)
	require.Error(t, err)

	_, err = builder.BuildInstantiate(7, []byte(`{}`), "", nil)
	require.Error(t, err)
}

func TestBuildUploadValidation(t *testing.T) {
	builder, _ := newTestBuilder(t, &stubRpcClient{})

	pending, err := builder.BuildUpload([]byte{0x00, 0x61, 0x73, 0x6d})
	require.NoError(t, err)
	require.Len(t, pending.Msgs, 1)

	_, err = builder.BuildUpload(nil)
	require.Error(t, err)
}

func TestFinalizeIsDeterministic(t *testing.T) {
	builder, _ := newTestBuilder(t, &stubRpcClient{gasRecommendation: 120000})

	pending, err := builder.BuildExecute(testContractAddress(t), []byte(`{"transfer":{"amount":"10"}}`), nil)
	require.NoError(t, err)

	metadata := &SigningMetadata{
		address:       builder.SenderAddress(),
		accountNumber: 7,
		chainID:       testChainID,
		sequence:      42,
	}

	first, err := builder.Finalize(context.Background(), pending, metadata)
	require.NoError(t, err)
	require.NotEmpty(t, first.Bytes)
	require.Equal(t, uint64(42), first.Sequence)

	second, err := builder.Finalize(context.Background(), pending, metadata)
	require.NoError(t, err)

	require.Equal(t, first.Bytes, second.Bytes)
}

func TestFinalizeRespectsPinnedGas(t *testing.T) {
	// No gas recommendation available; a pinned gas limit must avoid simulation.
	builder, _ := newTestBuilder(t, &stubRpcClient{})

	pending, err := builder.BuildExecute(testContractAddress(t), []byte(`{"noop":{}}`), nil)
	require.NoError(t, err)
	pending.GasLimit = 200000

	metadata := &SigningMetadata{
		address:       builder.SenderAddress(),
		accountNumber: 7,
		chainID:       testChainID,
		sequence:      1,
	}

	signed, err := builder.Finalize(context.Background(), pending, metadata)
	require.NoError(t, err)
	require.NotEmpty(t, signed.Bytes)
}
