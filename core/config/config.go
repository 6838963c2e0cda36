// Package config loads sheetpipe settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	DB             string        `env:"SHEETPIPE_DB"              envDefault:"sheetpipe.db"`
	MaxUploadBytes int64         `env:"SHEETPIPE_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	FetchTimeout   time.Duration `env:"SHEETPIPE_FETCH_TIMEOUT"    envDefault:"30s"`
	UserAgent      string        `env:"SHEETPIPE_USER_AGENT"`
	LogLevel       string        `env:"SHEETPIPE_LOG_LEVEL"        envDefault:"info"`
	LogFormat      string        `env:"SHEETPIPE_LOG_FORMAT"       envDefault:"text"`
	OutputDir      string        `env:"SHEETPIPE_OUTPUT_DIR"`
	InspectWorkers int           `env:"SHEETPIPE_INSPECT_WORKERS"  envDefault:"4"`
}

// Load reads the optional dotenv files (".env" when none are given) and
// then parses the environment. A missing dotenv file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges the parser cannot.
func (c Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("SHEETPIPE_MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("SHEETPIPE_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.InspectWorkers < 1 {
		return fmt.Errorf("SHEETPIPE_INSPECT_WORKERS must be at least 1, got %d", c.InspectWorkers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}
