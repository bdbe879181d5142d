package client

import (
	"github.com/fiamma-chain/cosmwasm-client-go/events"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
	"github.com/fiamma-chain/cosmwasm-client-go/rpc"
)

type Option func(*WasmClient)

// WithRpcClient swaps the transport backend. Tests use this to inject a mock.
func WithRpcClient(rpcClient rpc.RpcClient) Option {
	return func(c *WasmClient) {
		c.rpcClient = rpcClient
	}
}

// WithEventListener swaps the event subscription backend.
func WithEventListener(listener *events.Listener) Option {
	return func(c *WasmClient) {
		c.listener = listener
	}
}

// NewEventListenerWithDialer builds a listener over a custom dialer, sharing
// the client's tuning. Convenience for tests scripting websocket streams.
func NewEventListenerWithDialer(websocketURI string, bufferSize, decodeFailureThreshold int, logger *log.Logger, dialer events.Dialer) *events.Listener {
	return events.NewListener(websocketURI, bufferSize, decodeFailureThreshold, logger, events.WithDialer(dialer))
}
