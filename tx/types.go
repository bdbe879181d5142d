package tx

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TxStatus tracks the lifecycle of a broadcasted transaction.
// Draft -> Signed -> Pending -> Confirmed | Rejected. Confirmed and Rejected
// are terminal.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusRejected  TxStatus = "rejected"
)

// PendingTx is a draft transaction. It is consumed by Builder.Finalize.
// A zero GasLimit requests gas simulation; a nil FeeAmount derives the fee
// from the configured gas price.
type PendingTx struct {
	Msgs      []sdk.Msg
	Memo      string
	GasLimit  uint64
	FeeAmount sdk.Coins
}

// SignedTx holds broadcastable bytes. Immutable once created.
type SignedTx struct {
	Bytes    []byte
	Sequence uint64
}

// TxResult is the outcome of a broadcast, updated by confirmation polling.
type TxResult struct {
	Hash   string
	Code   uint32
	RawLog string
	Height int64
	Status TxStatus
}

// SigningMetadata is the account state a signature commits to.
type SigningMetadata struct {
	address       string
	accountNumber uint64
	chainID       string
	sequence      uint64
}

func (sm *SigningMetadata) Address() string {
	return sm.address
}

func (sm *SigningMetadata) AccountNumber() uint64 {
	return sm.accountNumber
}

func (sm *SigningMetadata) ChainID() string {
	return sm.chainID
}

func (sm *SigningMetadata) Sequence() uint64 {
	return sm.sequence
}
