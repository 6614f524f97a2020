package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aptosgrid/aptos-data/internal/model"
)

// GasWriter batches gas estimate samples into the gas_readings table.
type GasWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the gas poller
	input chan model.GasReading

	// Database
	db Batcher

	// Batching
	batch       []model.GasReading
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewGasWriter creates a new GasWriter.
func NewGasWriter(cfg WriterConfig, db Batcher, logger *slog.Logger) *GasWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GasWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.GasReading, cfg.BufferSize),
		batch:  make([]model.GasReading, 0, cfg.BatchSize),
	}
}

// Enqueue hands a reading to the writer without blocking. Readings are
// dropped when the input buffer is full.
func (w *GasWriter) Enqueue(reading model.GasReading) {
	select {
	case w.input <- reading:
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("gas buffer full, dropping reading")
	}
}

// Start begins consuming readings and writing to the database.
func (w *GasWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("gas writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *GasWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping gas writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("gas writer stopped")
	case <-ctx.Done():
		w.logger.Warn("gas writer stop timed out")
	}

	// Drain readings accepted before shutdown, then flush what remains.
	// The loops are gone, so the final flush runs on the caller's
	// context rather than the writer's cancelled one.
	w.drain(ctx)
	w.flush(ctx)

	return nil
}

// drain moves any readings still buffered in the input channel into the
// batch.
func (w *GasWriter) drain(ctx context.Context) {
	for {
		select {
		case reading := <-w.input:
			w.handleReading(ctx, reading)
		default:
			return
		}
	}
}

// Stats returns current metrics.
func (w *GasWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *GasWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case reading := <-w.input:
			w.handleReading(w.ctx, reading)
		}
	}
}

func (w *GasWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *GasWriter) handleReading(ctx context.Context, reading model.GasReading) {
	w.batchMu.Lock()
	w.batch = append(w.batch, reading)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(ctx)
	}
}

func (w *GasWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	batch := w.batch
	w.batch = make([]model.GasReading, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed gas readings", "count", len(batch))
}

func (w *GasWriter) batchInsert(ctx context.Context, rows []model.GasReading) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO gas_readings (id, gas_estimate, deprioritized, prioritized, fetched_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, r.ID, r.GasEstimate, r.Deprioritized, r.Prioritized, r.FetchedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
