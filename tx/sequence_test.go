package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fiamma-chain/cosmwasm-client-go/rpc"
)

func TestSigningMetadataProviderCachesAccountData(t *testing.T) {
	rpcClient := &stubRpcClient{
		accountData: &rpc.AccountData{AccountNumber: 7, Sequence: 5},
	}
	provider := NewSigningMetadataProvider(testChainID, rpcClient)

	metadata, err := provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)
	require.Equal(t, uint64(7), metadata.AccountNumber())
	require.Equal(t, uint64(5), metadata.Sequence())
	require.Equal(t, testChainID, metadata.ChainID())
	require.Equal(t, "wasm1sender", metadata.Address())

	// Second call is served from cache.
	_, err = provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)
	require.Equal(t, 1, rpcClient.accountFetches)
}

func TestOnBroadcastAcceptedAdvancesSequence(t *testing.T) {
	rpcClient := &stubRpcClient{
		accountData: &rpc.AccountData{AccountNumber: 7, Sequence: 5},
	}
	provider := NewSigningMetadataProvider(testChainID, rpcClient)

	metadata, err := provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)

	provider.OnBroadcastAccepted(metadata)

	next, err := provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)
	require.Equal(t, uint64(6), next.Sequence())
	require.Equal(t, 1, rpcClient.accountFetches)

	// The metadata handed to the accepted broadcast is unchanged.
	require.Equal(t, uint64(5), metadata.Sequence())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	rpcClient := &stubRpcClient{
		accountData: &rpc.AccountData{AccountNumber: 7, Sequence: 5},
	}
	provider := NewSigningMetadataProvider(testChainID, rpcClient)

	_, err := provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)

	// Chain state moved on; a refetch must observe it.
	rpcClient.accountData.Sequence = 9
	provider.Invalidate("wasm1sender")

	metadata, err := provider.SigningMetadataForAccount(context.Background(), "wasm1sender")
	require.NoError(t, err)
	require.Equal(t, uint64(9), metadata.Sequence())
	require.Equal(t, 2, rpcClient.accountFetches)
}
