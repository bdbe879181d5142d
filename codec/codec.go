package codec

import (
	"sync"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Provides a singleton codec that can be used across the application

// Mutex to initialize the codec exactly once
var initCodecOnce sync.Once

// The codec
var cdc *codec.ProtoCodec = nil

func GetCodec() *codec.ProtoCodec {
	initCodecOnce.Do(func() {
		interfaceRegistry := codectypes.NewInterfaceRegistry()

		authtypes.RegisterInterfaces(interfaceRegistry)
		cryptocodec.RegisterInterfaces(interfaceRegistry)
		wasmtypes.RegisterInterfaces(interfaceRegistry)

		cdc = codec.NewProtoCodec(interfaceRegistry)
	})

	return cdc
}
