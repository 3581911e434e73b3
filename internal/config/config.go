// Package config loads the optiondeck YAML configuration with environment
// variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for both the dashboard client and
// the companion data server.
type Config struct {
	Server      Server      `yaml:"server"`
	Feed        Feed        `yaml:"feed"`
	Instruments Instruments `yaml:"instruments"`
	Logging     Logging     `yaml:"logging"`
}

// Server holds the companion data server's listener settings and its
// simulated-feed refresh cadence.
type Server struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"`
	SimulatorSeed      int64  `yaml:"simulator_seed"`
}

// Feed configures the client's connection to the data endpoint.
type Feed struct {
	BaseURL            string `yaml:"base_url"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"`
	FetchTimeoutSec    int    `yaml:"fetch_timeout_sec"`
}

// Instruments lists the selectable underlyings and which one the dashboard
// opens on.
type Instruments struct {
	Symbols []string `yaml:"symbols"`
	Default string   `yaml:"default"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Host:               "0.0.0.0",
			Port:               5000,
			RefreshIntervalSec: 30,
			SimulatorSeed:      1,
		},
		Feed: Feed{
			BaseURL:            "http://localhost:5000",
			RefreshIntervalSec: 30,
			FetchTimeoutSec:    12,
		},
		Instruments: Instruments{
			Symbols: []string{"NIFTY", "BANKNIFTY", "RELIANCE", "TCS", "HDFCBANK"},
			Default: "NIFTY",
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load reads the YAML configuration file at the given path on top of the
// defaults, then applies environment variable overrides. An empty path
// yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// RefreshInterval returns the client polling period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Feed.RefreshIntervalSec) * time.Second
}

// FetchTimeout returns the per-fetch deadline.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Feed.FetchTimeoutSec) * time.Second
}

// ServerRefreshInterval returns the companion server's regeneration period.
func (c *Config) ServerRefreshInterval() time.Duration {
	return time.Duration(c.Server.RefreshIntervalSec) * time.Second
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONDECK_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("OPTIONDECK_INSTRUMENT"); v != "" {
		cfg.Instruments.Default = v
	}
	if v := os.Getenv("OPTIONDECK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
