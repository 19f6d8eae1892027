package config

import (
	"flag"
	"os"
	"time"

	"github.com/eduline/studyshop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend service
//	-l string   lang header value
//	-s string   path to the local storage database
//	-t int      HTTP timeout in seconds
//	-w int      storage watch interval in seconds
//	-v string   log level
//
// Args are filtered with flagx.FilterArgs so flags owned by other stages
// (such as -c/-config) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-s", "-t", "-w", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend service")
	fs.StringVar(&cfg.Lang, "l", cfg.Lang, "lang header value")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path to the local storage database")
	httpTimeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "HTTP timeout (in seconds)")
	watchInterval := fs.Int("w", int(cfg.WatchInterval.Seconds()), "storage watch interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*httpTimeout) * time.Second
	cfg.WatchInterval = time.Duration(*watchInterval) * time.Second
}
