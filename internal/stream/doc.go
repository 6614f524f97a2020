// Package stream implements the real-time event listener.
//
// The listener:
//   - Maintains a single WebSocket connection to the real-time endpoint
//   - Sends one subscribe message for the configured pair on open
//   - Dispatches open/message/error/close events to a Handler
//   - Does not reconnect; callers own the retry policy
package stream
