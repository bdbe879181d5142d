package events

import (
	"fmt"
	"strings"
)

// Filter selects which on-chain events a subscription delivers. The zero
// value matches all wasm events on the chain.
type Filter struct {
	// ContractAddress restricts the stream to events emitted by one contract.
	ContractAddress string

	// EventType restricts the stream to one abci event type. When empty, all
	// wasm* event types match.
	EventType string
}

// query renders the CometBFT subscription query for this filter.
func (f Filter) query() string {
	query := "tm.event='Tx'"
	if f.ContractAddress != "" {
		query = fmt.Sprintf("%s AND wasm._contract_address='%s'", query, f.ContractAddress)
	}
	return query
}

func (f Filter) matchesEventType(eventType string) bool {
	if f.EventType != "" {
		return eventType == f.EventType
	}
	return strings.HasPrefix(eventType, "wasm")
}

// ContractEvent is a decoded wasm event emitted by a transaction.
type ContractEvent struct {
	Height     int64
	TxHash     string
	Type       string
	Attributes map[string]string
}

// Attribute returns the value for a key, with a presence flag.
func (e *ContractEvent) Attribute(key string) (string, bool) {
	value, ok := e.Attributes[key]
	return value, ok
}
