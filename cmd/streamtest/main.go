// streamtest connects to the Aptos Network real-time endpoint, subscribes
// to a pair, and prints inbound frames to the console.
//
// Usage: go run ./cmd/streamtest --url wss://api.aptos-network.pro/real-time --pair APT-USDT
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aptosgrid/aptos-data/internal/config"
	"github.com/aptosgrid/aptos-data/internal/stream"
)

func main() {
	url := flag.String("url", config.DefaultStreamURL, "WebSocket URL")
	pair := flag.String("pair", config.DefaultPair, "trading pair to subscribe")
	verbose := flag.Bool("verbose", false, "pretty-print frame JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := stream.DefaultConfig()
	cfg.URL = *url
	cfg.Pair = *pair

	count := 0
	handler := stream.HandlerFuncs{
		Open: func() {
			logger.Info("connected", "url", *url, "pair", *pair)
		},
		Message: func(data []byte) {
			count++
			if *verbose {
				var pretty map[string]any
				if err := json.Unmarshal(data, &pretty); err == nil {
					out, _ := json.MarshalIndent(pretty, "", "  ")
					fmt.Printf("[FRAME %d]\n%s\n", count, out)
					return
				}
			}
			fmt.Printf("[FRAME %d] %s\n", count, data)
		},
		Error: func(err error) {
			logger.Error("stream error", "error", err)
		},
		Close: func(code int, text string) {
			logger.Info("server closed connection", "code", code, "reason", text)
		},
	}

	listener := stream.NewListener(cfg, handler, logger)

	logger.Info("streaming started - press Ctrl+C to stop")

	if err := listener.Run(ctx); err != nil {
		logger.Error("stream ended", "error", err)
		os.Exit(1)
	}

	logger.Info("stream ended", "frames", count)
}
