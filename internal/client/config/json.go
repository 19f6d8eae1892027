package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/eduline/studyshop/internal/flagx"
	"github.com/eduline/studyshop/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. timex.Duration
// lets the file spell intervals as "15s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL    string         `json:"api_base_url"`
	Lang          string         `json:"lang"`
	StoragePath   string         `json:"storage_path"`
	HTTPTimeout   timex.Duration `json:"http_timeout"`
	WatchInterval timex.Duration `json:"watch_interval"`
	LogLevel      string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c or
// -config. Absent file path means no overlay. Fields left empty in the
// file keep their current values. Read or unmarshal errors panic; config
// is resolved before anything else runs.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.Lang != "" {
		cfg.Lang = jc.Lang
	}
	if jc.StoragePath != "" {
		cfg.StoragePath = jc.StoragePath
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
	if jc.WatchInterval.Duration != 0 {
		cfg.WatchInterval = time.Duration(jc.WatchInterval.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
