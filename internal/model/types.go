package model

import (
	"time"

	"github.com/google/uuid"
)

// Tick is one raw frame from the real-time stream, as stored.
type Tick struct {
	ID         uuid.UUID // Primary key, assigned at ingest
	Pair       string    // Trading pair (e.g., "APT-USDT")
	Payload    []byte    // Raw frame bytes, unmodified
	ReceivedAt int64     // Collector receive timestamp (µs since epoch)
}

// NewTick builds a Tick for a frame received now.
func NewTick(pair string, payload []byte, receivedAt time.Time) Tick {
	return Tick{
		ID:         uuid.New(),
		Pair:       pair,
		Payload:    payload,
		ReceivedAt: receivedAt.UnixMicro(),
	}
}

// GasReading is one sample of the gateway's gas estimate.
type GasReading struct {
	ID            uuid.UUID // Primary key, assigned at ingest
	GasEstimate   uint64    // Standard estimate (octas per gas unit)
	Deprioritized uint64    // Low-priority estimate, 0 if absent
	Prioritized   uint64    // High-priority estimate, 0 if absent
	FetchedAt     int64     // Sample timestamp (µs since epoch)
}
