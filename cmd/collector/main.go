package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/aptosgrid/aptos-data/internal/api"
	"github.com/aptosgrid/aptos-data/internal/config"
	"github.com/aptosgrid/aptos-data/internal/database"
	"github.com/aptosgrid/aptos-data/internal/model"
	"github.com/aptosgrid/aptos-data/internal/poller"
	"github.com/aptosgrid/aptos-data/internal/stream"
	"github.com/aptosgrid/aptos-data/internal/version"
	"github.com/aptosgrid/aptos-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"stream_url", cfg.Stream.URL,
		"pair", cfg.Stream.Pair,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	// Probe the gateway before streaming
	if est, err := apiClient.GetGasEstimate(ctx); err != nil {
		logger.Warn("gateway probe failed", "error", err)
	} else {
		logger.Info("gateway reachable", "gas_estimate", est.GasEstimate)
	}

	// Start writers
	writerCfg := writer.WriterConfig{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
		BufferSize:    cfg.Writer.BufferSize,
	}

	tickWriter := writer.NewTickWriter(writerCfg, pool, logger.With("writer", "ticks"))
	gasWriter := writer.NewGasWriter(writerCfg, pool, logger.With("writer", "gas"))

	if err := tickWriter.Start(ctx); err != nil {
		logger.Error("failed to start tick writer", "error", err)
		os.Exit(1)
	}
	if err := gasWriter.Start(ctx); err != nil {
		logger.Error("failed to start gas writer", "error", err)
		os.Exit(1)
	}

	// Start gas poller feeding the gas writer
	gasPoller := poller.New(
		poller.Config{Interval: cfg.Poller.Interval, Timeout: cfg.API.Timeout},
		apiClient,
		poller.ReadingHandlerFunc(func(r model.GasReading) error {
			gasWriter.Enqueue(r)
			return nil
		}),
		logger,
	)
	if err := gasPoller.Start(ctx); err != nil {
		logger.Error("failed to start gas poller", "error", err)
		os.Exit(1)
	}

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(pool, tickWriter, gasWriter, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting health server", "port", cfg.Health.Port)
		err := healthServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return healthServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return runStream(gctx, cfg, tickWriter, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("collector failed", "error", err)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down...")
	gasPoller.Stop(shutdownCtx)
	gasWriter.Stop(shutdownCtx)
	tickWriter.Stop(shutdownCtx)

	logger.Info("shutdown complete")
}

// runStream keeps one listener running against the real-time endpoint.
// The listener itself is single-shot; reconnection with exponential
// backoff lives here, at the caller level.
func runStream(ctx context.Context, cfg *config.CollectorConfig, ticks *writer.TickWriter, logger *slog.Logger) error {
	streamCfg := stream.Config{
		URL:              cfg.Stream.URL,
		Pair:             cfg.Stream.Pair,
		HandshakeTimeout: cfg.Stream.HandshakeTimeout,
		WriteTimeout:     cfg.Stream.WriteTimeout,
	}

	wait := cfg.Stream.ReconnectBaseDelay

	for {
		handler := stream.HandlerFuncs{
			Open: func() {
				logger.Info("stream connected", "pair", cfg.Stream.Pair)
			},
			Message: func(data []byte) {
				ticks.Enqueue(model.NewTick(cfg.Stream.Pair, data, time.Now()))
			},
			Error: func(err error) {
				logger.Warn("stream error", "error", err)
			},
			Close: func(code int, text string) {
				logger.Info("stream closed by server", "code", code, "reason", text)
			},
		}

		listener := stream.NewListener(streamCfg, handler, logger)

		start := time.Now()
		err := listener.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}

		// Reset backoff after a connection that held for a while.
		if err == nil || time.Since(start) > time.Minute {
			wait = cfg.Stream.ReconnectBaseDelay
		}

		logger.Info("reconnecting stream", "wait", wait)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}

		wait *= 2
		if wait > cfg.Stream.ReconnectMaxDelay {
			wait = cfg.Stream.ReconnectMaxDelay
		}
	}
}

// createHealthHandler serves liveness and writer stats.
func createHealthHandler(pool *pgxpool.Pool, ticks *writer.TickWriter, gas *writer.GasWriter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("health check db ping failed", "error", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		tickStats := ticks.Stats()
		gasStats := gas.Stats()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  status,
			"version": version.String(),
			"ticks": map[string]int64{
				"inserts": tickStats.Inserts,
				"dropped": tickStats.Dropped,
				"errors":  tickStats.Errors,
			},
			"gas": map[string]int64{
				"inserts": gasStats.Inserts,
				"errors":  gasStats.Errors,
			},
		})
	})

	return mux
}
