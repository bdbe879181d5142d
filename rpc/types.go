package rpc

import (
	abci "github.com/cometbft/cometbft/abci/types"
)

type AccountData struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

type SimulationResult struct {
	GasRecommendation uint64
}

// TxEvents groups the events emitted by a single transaction in a block.
type TxEvents struct {
	TxHash string
	Height int64
	Events []abci.Event
}
