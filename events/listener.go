package events

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
	"github.com/fiamma-chain/cosmwasm-client-go/log"
)

// Listener opens event subscriptions against the node's websocket endpoint.
type Listener struct {
	websocketURI string

	dialer Dialer

	bufferSize             int
	decodeFailureThreshold int

	log *log.Logger
}

type ListenerOption func(*Listener)

// WithDialer overrides the websocket dialer. Used by tests to script streams.
func WithDialer(dialer Dialer) ListenerOption {
	return func(l *Listener) {
		l.dialer = dialer
	}
}

func NewListener(
	websocketURI string,
	bufferSize int,
	decodeFailureThreshold int,
	log *log.Logger,
	opts ...ListenerOption,
) *Listener {
	listener := &Listener{
		websocketURI: websocketURI,

		bufferSize:             bufferSize,
		decodeFailureThreshold: decodeFailureThreshold,

		log: log,
	}

	for _, opt := range opts {
		opt(listener)
	}

	if listener.dialer == nil {
		listener.dialer = NewWebsocketDialer()
	}

	return listener
}

// Subscribe opens a websocket subscription for the filter and starts a reader
// task. Events arrive on the subscription's channel in node emission order.
// The subscription ends when the context is cancelled, Close is called, the
// connection drops, or too many consecutive messages fail to decode.
func (l *Listener) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	conn, err := l.dialer.DialContext(ctx, l.websocketURI)
	if err != nil {
		return nil, clienterr.ErrUnavailable.Wrapf("failed to dial websocket %s: %s", l.websocketURI, err)
	}

	request, err := subscriptionRequest(filter.query())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := conn.Send(request); err != nil {
		_ = conn.Close()
		return nil, clienterr.ErrUnavailable.Wrapf("failed to send subscription request: %s", err)
	}

	subscription := &Subscription{
		events: make(chan ContractEvent, l.bufferSize),
		conn:   conn,
		done:   make(chan struct{}),
	}

	go subscription.watchContext(ctx)
	go l.readLoop(subscription, filter)

	l.log.Info().Str("query", filter.query()).Msg("Opened event subscription")

	return subscription, nil
}

// readLoop pumps messages from the connection into the subscription channel.
// Sends block when the consumer is slower than the producer, which in turn
// blocks upstream reads: backpressure instead of unbounded buffering.
func (l *Listener) readLoop(s *Subscription, filter Filter) {
	defer close(s.events)

	consecutiveFailures := 0

	for {
		raw, err := s.conn.Receive()
		if err != nil {
			if s.isDone() {
				// Consumer closed the subscription; the read error is expected.
				return
			}
			s.fail(clienterr.ErrUnavailable.Wrapf("event stream read: %s", err))
			return
		}

		decoded, err := decodeTxEvents(raw, filter)
		if err != nil {
			consecutiveFailures++
			l.log.Warn().Err(err).Int("consecutive failures", consecutiveFailures).Msg("Skipping undecodable event")

			if consecutiveFailures >= l.decodeFailureThreshold {
				s.fail(clienterr.ErrStreamCorrupted.Wrapf("%d consecutive decode failures", consecutiveFailures))
				return
			}
			continue
		}
		consecutiveFailures = 0

		for _, event := range decoded {
			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		}
	}
}

// Subscription is a handle on a live event stream. Closing it terminates the
// underlying socket promptly; no events are delivered afterwards.
type Subscription struct {
	events chan ContractEvent
	conn   Connection

	done      chan struct{}
	closeOnce sync.Once

	errMu sync.RWMutex
	err   error
}

// Events returns the stream channel. It is closed when the subscription
// terminates for any reason; check Err afterwards.
func (s *Subscription) Events() <-chan ContractEvent {
	return s.events
}

// Err reports why the stream terminated. Nil while the stream is live or
// after a clean Close.
func (s *Subscription) Err() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.err
}

// Close terminates the subscription and the underlying connection.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Subscription) watchContext(ctx context.Context) {
	select {
	case <-ctx.Done():
		s.Close()
	case <-s.done:
	}
}

func (s *Subscription) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Subscription) fail(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()

	s.Close()
}

// subscriptionRequest renders the JSON-RPC subscribe call for a query.
func subscriptionRequest(query string) ([]byte, error) {
	request := map[string]any{
		"jsonrpc": "2.0",
		"method":  "subscribe",
		"id":      randRequestID(),
		"params": map[string]any{
			"query": query,
		},
	}

	bytes, err := json.Marshal(request)
	if err != nil {
		return nil, clienterr.ErrDecode.Wrapf("failed to marshal subscription request: %s", err)
	}
	return bytes, nil
}

func randRequestID() string {
	requestIDBytes := make([]byte, 8)
	_, _ = rand.Read(requestIDBytes)
	return base64.StdEncoding.EncodeToString(requestIDBytes)
}
