package tx

import (
	"context"
	"sync"

	"github.com/fiamma-chain/cosmwasm-client-go/rpc"
)

// SigningMetadataProvider caches account numbers and sequences. A cached
// sequence is only advanced after the node accepts a broadcast, so a rejected
// broadcast never skips a sequence number. Callers must serialize the
// finalize-and-broadcast window per account; this type only guards its own
// cache.
type SigningMetadataProvider struct {
	chainID   string
	rpcClient rpc.RpcClient

	mu    sync.Mutex
	cache map[string]*SigningMetadata
}

func NewSigningMetadataProvider(chainID string, rpcClient rpc.RpcClient) *SigningMetadataProvider {
	return &SigningMetadataProvider{
		chainID:   chainID,
		rpcClient: rpcClient,

		cache: make(map[string]*SigningMetadata),
	}
}

// SigningMetadataForAccount returns the cached account state, fetching from
// the chain on a cache miss.
func (p *SigningMetadataProvider) SigningMetadataForAccount(ctx context.Context, address string) (*SigningMetadata, error) {
	p.mu.Lock()
	cached, ok := p.cache[address]
	p.mu.Unlock()
	if ok {
		return cached, nil
	}

	accountData, err := p.rpcClient.GetAccountData(ctx, address)
	if err != nil {
		return nil, err
	}

	metadata := &SigningMetadata{
		address:       address,
		accountNumber: accountData.AccountNumber,
		chainID:       p.chainID,
		sequence:      accountData.Sequence,
	}

	p.mu.Lock()
	p.cache[address] = metadata
	p.mu.Unlock()

	return metadata, nil
}

// OnBroadcastAccepted advances the cached sequence after the node accepted a
// broadcast with the given metadata.
func (p *SigningMetadataProvider) OnBroadcastAccepted(metadata *SigningMetadata) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache[metadata.Address()] = &SigningMetadata{
		address:       metadata.address,
		accountNumber: metadata.accountNumber,
		chainID:       metadata.chainID,
		sequence:      metadata.sequence + 1,
	}
}

// Invalidate drops the cached state for an account, forcing a refetch on the
// next use. Called when the node reports a stale sequence.
func (p *SigningMetadataProvider) Invalidate(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.cache, address)
}
