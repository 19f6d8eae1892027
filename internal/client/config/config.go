// Package config assembles runtime settings for the storefront client.
// Sources are layered: defaults, then a JSON config file, then environment
// variables (including a .env file), then command-line flags. Later
// sources win.
package config

import "time"

// Config holds runtime settings for the storefront client.
//
// Fields:
//   - APIBaseURL: scheme://host of the backend REST service.
//   - Lang: value of the lang header; the backend localizes error
//     messages with it.
//   - StoragePath: sqlite file holding the durable session storage.
//   - HTTPTimeout: per-request timeout for backend calls.
//   - WatchInterval: how often storage is polled for writes made by
//     another client sharing the same file.
//   - LogLevel: zap level string ("debug", "info", "warn", "error").
type Config struct {
	APIBaseURL    string
	Lang          string
	StoragePath   string
	HTTPTimeout   time.Duration
	WatchInterval time.Duration
	LogLevel      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://eng-mohamedkhalf.shop"
	c.Lang = "ar"
	c.StoragePath = "session.db"
	c.HTTPTimeout = 15 * time.Second
	c.WatchInterval = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment, and flags in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
