package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables. A .env file in the
// working directory is loaded first, if present; real environment
// variables take precedence over it (godotenv does not overwrite).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("STUDYSHOP_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STUDYSHOP_LANG"); v != "" {
		cfg.Lang = v
	}
	if v := os.Getenv("STUDYSHOP_STORAGE_PATH"); v != "" {
		cfg.StoragePath = v
	}
	if v := os.Getenv("STUDYSHOP_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("STUDYSHOP_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WatchInterval = d
		}
	}
	if v := os.Getenv("STUDYSHOP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
