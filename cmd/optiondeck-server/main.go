// optiondeck-server serves the dashboard data API from a simulated
// analytics feed, so the TUI can run end to end without a live analytics
// backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"optiondeck/internal/config"
	"optiondeck/internal/feed"
	"optiondeck/internal/httpapi"
	"optiondeck/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	if *cfgPath == "" {
		if p := os.Getenv("OPTIONDECK_CONFIG"); p != "" {
			*cfgPath = p
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	sim := feed.NewSimulator(cfg.Server.SimulatorSeed)
	api := httpapi.NewServer(sim, cfg.Instruments.Symbols, cfg.ServerRefreshInterval(), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := api.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("refresh loop stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: api.Handler()}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("optiondeck-server listening", "addr", addr,
		"instruments", len(cfg.Instruments.Symbols),
		"refresh", cfg.ServerRefreshInterval())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
