package writer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Batcher is the subset of pgxpool.Pool the writers use.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterConfig holds batching settings shared by all writers.
type WriterConfig struct {
	BatchSize     int           // Rows per database batch
	FlushInterval time.Duration // Max time a row waits in the batch
	BufferSize    int           // Input channel capacity
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// WriterMetrics counts writer activity.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Errors    int64
	Dropped   int64
}
