// optiondeck is a terminal dashboard for derived options-market analytics:
// open-interest skew, put-call ratios, max pain, support/resistance and
// directional signals for a selectable underlying, refreshed by polling
// the data API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"optiondeck/internal/config"
	"optiondeck/internal/dashboard"
	"optiondeck/internal/feed"
	"optiondeck/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional)")
	baseURL := flag.String("url", "", "data API base URL (overrides config)")
	simulate := flag.Bool("sim", false, "use the built-in simulator instead of the HTTP endpoint")
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
	if *baseURL != "" {
		cfg.Feed.BaseURL = *baseURL
	}

	// The terminal belongs to the TUI; keep logs out of the way.
	logFile, err := os.OpenFile("optiondeck.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level, cfg.Logging.Format)

	var source feed.Source
	if *simulate {
		source = feed.NewSimulator(cfg.Server.SimulatorSeed)
	} else {
		source = feed.NewClient(cfg.Feed.BaseURL, cfg.FetchTimeout())
	}

	state := dashboard.NewState(cfg.Instruments.Default)
	poller := dashboard.NewPoller(state, source, dashboard.SystemClock(), cfg.RefreshInterval(), logger)
	ctrl := dashboard.NewController(state, poller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("poller stopped", "error", err)
		}
	}()

	logger.Info("optiondeck starting",
		"source", source.Name(),
		"instrument", cfg.Instruments.Default,
		"refresh", cfg.RefreshInterval())

	m := initialModel(ctrl, state, cfg.Instruments.Symbols, cancel, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
