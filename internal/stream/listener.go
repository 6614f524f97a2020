package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Listener maintains one WebSocket connection to the real-time endpoint and
// dispatches lifecycle events to a Handler.
//
// A Listener is single-shot: once the connection ends it stays
// disconnected. Reconnection is the caller's responsibility.
type Listener struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger

	state atomic.Int32

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	// Write serialization
	writeMu sync.Mutex
}

// NewListener creates a new Listener. The handler must not be nil.
func NewListener(cfg Config, handler Handler, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}

	return &Listener{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// State returns the current connection state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// IsConnected returns true while the connection is established.
func (l *Listener) IsConnected() bool {
	return l.State() == StateConnected
}

// Run dials the endpoint, writes the subscribe message, and blocks reading
// frames until the connection ends. It returns nil on a clean close
// (server close frame, Close(), or context cancellation) and the transport
// error otherwise.
func (l *Listener) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrAlreadyClosed
	}
	l.mu.Unlock()

	l.state.Store(int32(StateConnecting))

	header := http.Header{}
	header.Set("Accept", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: l.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, l.cfg.URL, header)
	if err != nil {
		l.state.Store(int32(StateDisconnected))
		err = fmt.Errorf("dial %s: %w", l.cfg.URL, err)
		l.handler.OnError(err)
		return err
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	l.state.Store(int32(StateConnected))

	// Report server close frames through the handler, then echo the close
	// so the server sees a clean shutdown.
	conn.SetCloseHandler(func(code int, text string) error {
		l.handler.OnClose(code, text)
		msg := websocket.FormatCloseMessage(code, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		return nil
	})

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	l.logger.Debug("websocket connected", "url", l.cfg.URL)
	l.handler.OnOpen()

	// Subscribe is the first outbound traffic on the connection.
	sub, _ := json.Marshal(SubscribeMessage{Type: "subscribe", Pair: l.cfg.Pair})
	if err := l.write(sub); err != nil {
		l.shutdown()
		err = fmt.Errorf("send subscribe: %w", err)
		l.handler.OnError(err)
		return err
	}

	l.logger.Debug("subscribed", "pair", l.cfg.Pair)

	// Unblock ReadMessage when the context is cancelled.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-readDone:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			l.state.Store(int32(StateDisconnected))

			l.mu.Lock()
			closed := l.closed
			l.mu.Unlock()

			if closed || ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// Close handler already fired for the inbound close frame.
				return nil
			}

			l.handler.OnError(err)
			return err
		}

		l.handler.OnMessage(data)
	}
}

// Send writes raw bytes to the connection.
func (l *Listener) Send(data []byte) error {
	if !l.IsConnected() {
		return ErrNotConnected
	}
	return l.write(data)
}

// Close tears down the connection. Run returns nil after an explicit
// Close.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	conn := l.conn
	l.mu.Unlock()

	l.state.Store(int32(StateDisconnected))

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

func (l *Listener) write(data []byte) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// shutdown closes the underlying connection after a setup failure.
func (l *Listener) shutdown() {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	l.state.Store(int32(StateDisconnected))
	if conn != nil {
		conn.Close()
	}
}
