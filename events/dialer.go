package events

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/gorilla/websocket"
)

const wssPrefix = "wss://"

// Connection is a transport-level message connection to the node's event
// endpoint. It exists as an interface so tests can script the stream.
type Connection interface {
	// Receive blocks until the next complete message arrives.
	Receive() ([]byte, error)

	Send(msg []byte) error

	// Close terminates the connection. Pending and future Receive calls fail.
	Close() error
}

// Dialer opens Connections.
type Dialer interface {
	DialContext(ctx context.Context, urlString string) (Connection, error)
}

var _ Dialer = (*websocketDialer)(nil)

// websocketDialer implements the Dialer interface using the gorilla websocket
// transport implementation.
type websocketDialer struct{}

func NewWebsocketDialer() Dialer {
	return &websocketDialer{}
}

func (wsDialer *websocketDialer) DialContext(ctx context.Context, urlString string) (Connection, error) {
	// Copy the default dialer so per-dial TLS config never leaks into the
	// package global shared by other clients in the process.
	dialer := *websocket.DefaultDialer

	if strings.HasPrefix(urlString, wssPrefix) {
		dialer.TLSClientConfig = &tls.Config{}
	}

	conn, _, err := dialer.DialContext(ctx, urlString, nil)
	if err != nil {
		return nil, err
	}
	return &websocketConn{conn: conn}, nil
}

var _ Connection = (*websocketConn)(nil)

type websocketConn struct {
	conn *websocket.Conn
}

func (wsConn *websocketConn) Receive() ([]byte, error) {
	_, msg, err := wsConn.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (wsConn *websocketConn) Send(msg []byte) error {
	// TextMessage indicates that msg is UTF-8 encoded.
	return wsConn.conn.WriteMessage(websocket.TextMessage, msg)
}

func (wsConn *websocketConn) Close() error {
	return wsConn.conn.Close()
}
