package stream

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// State is the lifecycle state of a listener connection. The progression is
// Disconnected -> Connecting -> Connected -> Disconnected, terminal on
// close or transport error.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// SubscribeMessage is the first outbound message after the connection
// opens.
type SubscribeMessage struct {
	Type string `json:"type"`
	Pair string `json:"pair"`
}

// Handler receives connection lifecycle events.
//
// OnOpen fires once when the connection is established, before the
// subscribe message is written. OnMessage is invoked exactly once per
// inbound frame with the unmodified frame content. OnError reports a
// transport failure; OnClose reports a close frame from the server. Both
// are terminal for the connection.
type Handler interface {
	OnOpen()
	OnMessage(data []byte)
	OnError(err error)
	OnClose(code int, text string)
}

// HandlerFuncs adapts free functions to a Handler. Nil functions are
// ignored.
type HandlerFuncs struct {
	Open    func()
	Message func(data []byte)
	Error   func(err error)
	Close   func(code int, text string)
}

func (h HandlerFuncs) OnOpen() {
	if h.Open != nil {
		h.Open()
	}
}

func (h HandlerFuncs) OnMessage(data []byte) {
	if h.Message != nil {
		h.Message(data)
	}
}

func (h HandlerFuncs) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}

func (h HandlerFuncs) OnClose(code int, text string) {
	if h.Close != nil {
		h.Close(code, text)
	}
}

// Config configures a Listener.
type Config struct {
	URL              string        // WebSocket URL (e.g., wss://api.aptos-network.pro/real-time)
	Pair             string        // Trading pair to subscribe (e.g., "APT-USDT")
	HandshakeTimeout time.Duration // Dial handshake timeout
	WriteTimeout     time.Duration // Write deadline for sends
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}
