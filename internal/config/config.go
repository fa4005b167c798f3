package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
)

// Config is cidlogsrv's full runtime configuration.
type Config struct {
	// StorePath is the path to the single-file event store.
	StorePath string `json:"store_path"`

	// NATSURL is the NATS server this process connects to for the
	// service facade's request/reply subjects.
	NATSURL string `json:"nats_url"`

	// MetricsAddr is the listen address for the Prometheus exposition
	// endpoint, empty to disable it.
	MetricsAddr string `json:"metrics_addr"`

	// FlushInterval is read from the config file and the --flush-interval
	// flag, but nothing consumes it: the background flusher always runs at
	// the logstore package's fixed one-second period.
	FlushInterval time.Duration `json:"flush_interval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// Default returns the compiled-in defaults, the lowest-precedence layer.
func Default() Config {
	return Config{
		StorePath:   "cidlog.dat",
		NATSURL:     "nats://127.0.0.1:4222",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// Load builds a [Config] by layering, in increasing precedence:
//  1. [Default]
//  2. a .env file at envPath, if it exists (values land in the process
//     environment, then are read the same way a real environment variable
//     would be)
//  3. a HuJSON config file at configPath, if it exists
//  4. flags registered on fs, if fs has already parsed argv
//
// Any layer that is absent is silently skipped; Load only fails on a
// layer that exists but is malformed.
func Load(envPath, configPath string, fs *pflag.FlagSet) (Config, error) {
	cfg := Default()

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return Config{}, fmt.Errorf("config: loading %q: %w", envPath, err)
			}
		}
	}

	applyEnv(&cfg)

	if configPath != "" {
		if err := applyFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	if fs != nil {
		applyFlags(&cfg, fs)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CIDLOGSRV_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}

	if v := os.Getenv("CIDLOGSRV_NATS_URL"); v != "" {
		cfg.NATSURL = v
	}

	if v := os.Getenv("CIDLOGSRV_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	if v := os.Getenv("CIDLOGSRV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// applyFile reads a HuJSON document (JSON plus comments and trailing
// commas) at path, standardizes it to plain JSON, and unmarshals it over
// cfg. A missing file is not an error; the caller decides whether
// configPath was expected to exist.
func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("config: reading %q: %w", path, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return fmt.Errorf("config: parsing %q: %w", path, err)
	}

	// json.Unmarshal into an already-populated struct only overwrites
	// fields present in std, leaving every other field (set by Default or
	// a prior layer) untouched — exactly the "layer overrides field by
	// field" semantics Load documents.
	if err := json.Unmarshal(std, cfg); err != nil {
		return fmt.Errorf("config: decoding %q: %w", path, err)
	}

	return nil
}

// RegisterFlags adds cidlogsrv's command-line overrides to fs. Call
// fs.Parse before passing fs to [Load].
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("store-path", "", "path to the event store file (overrides config)")
	fs.String("nats-url", "", "NATS server URL (overrides config)")
	fs.String("metrics-addr", "", "Prometheus exposition listen address (overrides config)")
	fs.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	fs.Duration("flush-interval", 0, "background flush period (recorded in the config only; the flusher always runs every second)")
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	if v, err := fs.GetString("store-path"); err == nil && v != "" {
		cfg.StorePath = v
	}

	if v, err := fs.GetString("nats-url"); err == nil && v != "" {
		cfg.NATSURL = v
	}

	if v, err := fs.GetString("metrics-addr"); err == nil && v != "" {
		cfg.MetricsAddr = v
	}

	if v, err := fs.GetString("log-level"); err == nil && v != "" {
		cfg.LogLevel = v
	}

	if v, err := fs.GetDuration("flush-interval"); err == nil && v != 0 {
		cfg.FlushInterval = v
	}
}
