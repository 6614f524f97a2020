package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aptosgrid/aptos-data/internal/api"
	"github.com/aptosgrid/aptos-data/internal/model"
)

// GasSource fetches the current gas estimate.
type GasSource interface {
	GetGasEstimate(ctx context.Context) (*api.GasEstimate, error)
}

// ReadingHandler receives fetched gas samples.
type ReadingHandler interface {
	HandleReading(reading model.GasReading) error
}

// ReadingHandlerFunc is a function adapter for ReadingHandler.
type ReadingHandlerFunc func(model.GasReading) error

func (f ReadingHandlerFunc) HandleReading(r model.GasReading) error {
	return f(r)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 30s)
	Timeout  time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		Timeout:  10 * time.Second,
	}
}

// Stats contains poller counters.
type Stats struct {
	Polls  int64
	Errors int64
}

// GasPoller periodically samples the gas estimate via the REST API.
type GasPoller struct {
	cfg     Config
	source  GasSource
	handler ReadingHandler
	logger  *slog.Logger

	polls  atomic.Int64
	errors atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new GasPoller.
func New(cfg Config, source GasSource, handler ReadingHandler, logger *slog.Logger) *GasPoller {
	if logger == nil {
		logger = slog.Default()
	}
	return &GasPoller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop. The first sample is taken immediately.
func (p *GasPoller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("gas poller started", "interval", p.cfg.Interval)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *GasPoller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("gas poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (p *GasPoller) Stats() Stats {
	return Stats{
		Polls:  p.polls.Load(),
		Errors: p.errors.Load(),
	}
}

// run is the main polling loop.
func (p *GasPoller) run() {
	defer p.wg.Done()

	p.pollOnce()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce()
		}
	}
}

// pollOnce fetches one gas sample and hands it to the handler.
func (p *GasPoller) pollOnce() {
	p.polls.Add(1)

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	est, err := p.source.GetGasEstimate(ctx)
	if err != nil {
		p.errors.Add(1)
		p.logger.Warn("gas estimate fetch failed", "error", err)
		return
	}

	reading := model.GasReading{
		ID:            uuid.New(),
		GasEstimate:   est.GasEstimate,
		Deprioritized: est.DeprioritizedGasEstimate,
		Prioritized:   est.PrioritizedGasEstimate,
		FetchedAt:     time.Now().UnixMicro(),
	}

	if err := p.handler.HandleReading(reading); err != nil {
		p.errors.Add(1)
		p.logger.Warn("gas reading handler failed", "error", err)
	}
}
