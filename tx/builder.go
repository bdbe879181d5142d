package tx

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/crypto"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
	"github.com/fiamma-chain/cosmwasm-client-go/rpc"

	"github.com/cosmos/cosmos-sdk/client"
	cosmostx "github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	txauth "github.com/cosmos/cosmos-sdk/x/auth/tx"
)

// Builder assembles contract messages into signed, broadcastable
// transactions. Building never touches account state; sequence bookkeeping
// belongs to the SigningMetadataProvider.
type Builder struct {
	cdc *codec.ProtoCodec

	chainID       string
	addressPrefix string
	feeDenom      string
	gasPrice      float64
	gasFactor     float64
	memo          string

	bytesSigner crypto.BytesSigner
	rpcClient   rpc.RpcClient

	log *log.Logger
}

func NewBuilder(
	cdc *codec.ProtoCodec,
	chainID string,
	addressPrefix string,
	feeDenom string,
	gasPrice float64,
	gasFactor float64,
	memo string,
	bytesSigner crypto.BytesSigner,
	rpcClient rpc.RpcClient,
	log *log.Logger,
) *Builder {
	return &Builder{
		cdc: cdc,

		chainID:       chainID,
		addressPrefix: addressPrefix,
		feeDenom:      feeDenom,
		gasPrice:      gasPrice,
		gasFactor:     gasFactor,
		memo:          memo,

		bytesSigner: bytesSigner,
		rpcClient:   rpcClient,

		log: log,
	}
}

// SenderAddress is the bech32 address transactions are signed from.
func (b *Builder) SenderAddress() string {
	return b.bytesSigner.GetAddress(b.addressPrefix)
}

// BuildExecute drafts a contract execution with a JSON message and optional funds.
func (b *Builder) BuildExecute(contract string, msg []byte, funds sdk.Coins) (*PendingTx, error) {
	if err := b.validateContractAddress(contract); err != nil {
		return nil, err
	}
	if err := validateContractMsg(msg); err != nil {
		return nil, err
	}

	executeMsg := &wasmtypes.MsgExecuteContract{
		Sender:   b.SenderAddress(),
		Contract: contract,
		Msg:      wasmtypes.RawContractMessage(msg),
		Funds:    funds,
	}

	return &PendingTx{
		Msgs: []sdk.Msg{executeMsg},
		Memo: b.memo,
	}, nil
}

// BuildInstantiate drafts a contract instantiation from an uploaded code id.
// The sender is set as the contract admin.
func (b *Builder) BuildInstantiate(codeID uint64, msg []byte, label string, funds sdk.Coins) (*PendingTx, error) {
	if codeID == 0 {
		return nil, clienterr.ErrInvalidConfig.Wrap("code id must be non-zero")
	}
	if label == "" {
		return nil, clienterr.ErrInvalidConfig.Wrap("contract label is required")
	}
	if err := validateContractMsg(msg); err != nil {
		return nil, err
	}

	sender := b.SenderAddress()
	instantiateMsg := &wasmtypes.MsgInstantiateContract{
		Sender: sender,
		Admin:  sender,
		CodeID: codeID,
		Label:  label,
		Msg:    wasmtypes.RawContractMessage(msg),
		Funds:  funds,
	}

	return &PendingTx{
		Msgs: []sdk.Msg{instantiateMsg},
		Memo: b.memo,
	}, nil
}

// BuildUpload drafts a code upload from raw wasm bytes.
func (b *Builder) BuildUpload(wasmBytes []byte) (*PendingTx, error) {
	if len(wasmBytes) == 0 {
		return nil, clienterr.ErrInvalidConfig.Wrap("wasm byte code is empty")
	}

	storeMsg := &wasmtypes.MsgStoreCode{
		Sender:       b.SenderAddress(),
		WASMByteCode: wasmBytes,
	}

	return &PendingTx{
		Msgs: []sdk.Msg{storeMsg},
		Memo: b.memo,
	}, nil
}

// Finalize signs a pending transaction against the given account state and
// returns broadcastable bytes. Gas is simulated when the draft does not pin
// a limit. Deterministic for fixed inputs and account state.
func (b *Builder) Finalize(ctx context.Context, pending *PendingTx, metadata *SigningMetadata) (*SignedTx, error) {
	txConfig := txauth.NewTxConfig(b.cdc, txauth.DefaultSignModes)
	factory := cosmostx.Factory{}.WithChainID(b.chainID).WithTxConfig(txConfig)
	txb, err := factory.BuildUnsignedTx(pending.Msgs...)
	if err != nil {
		return nil, err
	}

	txb.SetMemo(pending.Memo)

	// A placeholder signature is required for an accurate gas simulation.
	signatureProto := signing.SignatureV2{
		PubKey: b.bytesSigner.GetPublicKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signing.SignMode_SIGN_MODE_DIRECT,
			Signature: nil,
		},
		Sequence: metadata.Sequence(),
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return nil, err
	}

	gasLimit := pending.GasLimit
	if gasLimit == 0 {
		simulationResult, err := b.rpcClient.SimulateTx(ctx, txb.GetTx(), txConfig, b.gasFactor)
		if err != nil {
			return nil, err
		}
		gasLimit = simulationResult.GasRecommendation
	}
	txb.SetGasLimit(gasLimit)

	feeAmount := pending.FeeAmount
	if feeAmount == nil {
		feeAmount = sdk.Coins{
			{
				Denom:  b.feeDenom,
				Amount: math.NewInt(int64(b.gasPrice*float64(gasLimit)) + 1),
			},
		}
	}
	txb.SetFeeAmount(feeAmount)

	signedBytes, err := b.signTx(txb, metadata, txConfig)
	if err != nil {
		return nil, err
	}

	return &SignedTx{
		Bytes:    signedBytes,
		Sequence: metadata.Sequence(),
	}, nil
}

func (b *Builder) signTx(
	txb client.TxBuilder,
	metadata *SigningMetadata,
	txConfig client.TxConfig,
) ([]byte, error) {
	// Form signing data
	signerData := authsigning.SignerData{
		ChainID:       metadata.ChainID(),
		Sequence:      metadata.Sequence(),
		AccountNumber: metadata.AccountNumber(),
	}

	// Encode to bytes to sign
	signMode := signing.SignMode_SIGN_MODE_DIRECT
	unsignedTxBytes, err := txConfig.SignModeHandler().GetSignBytes(signMode, signerData, txb.GetTx())
	if err != nil {
		return []byte{}, err
	}

	// Sign the bytes
	signatureBytes, err := b.bytesSigner.SignBytes(unsignedTxBytes)
	if err != nil {
		return []byte{}, err
	}

	// Reconstruct the signature proto
	signatureData := &signing.SingleSignatureData{
		SignMode:  signMode,
		Signature: signatureBytes,
	}
	signatureProto := signing.SignatureV2{
		PubKey:   b.bytesSigner.GetPublicKey(),
		Data:     signatureData,
		Sequence: metadata.Sequence(),
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return []byte{}, err
	}

	// Encode to bytes
	encoder := txConfig.TxEncoder()
	return encoder(txb.GetTx())
}

// validateContractAddress checks bech32 shape and the chain's prefix without
// relying on the process-global sdk config.
func (b *Builder) validateContractAddress(contract string) error {
	if contract == "" {
		return clienterr.ErrInvalidAddress.Wrap("no contract address provided")
	}

	hrp, _, err := bech32.DecodeAndConvert(contract)
	if err != nil {
		return clienterr.ErrInvalidAddress.Wrapf("contract address %s: %s", contract, err)
	}
	if hrp != b.addressPrefix {
		return clienterr.ErrInvalidAddress.Wrapf("contract address prefix %s does not match chain prefix %s", hrp, b.addressPrefix)
	}
	return nil
}

func validateContractMsg(msg []byte) error {
	if len(msg) == 0 || !json.Valid(msg) {
		return clienterr.ErrDecode.Wrap("contract message must be valid JSON")
	}
	return nil
}
