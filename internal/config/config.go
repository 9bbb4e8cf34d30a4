// Package config loads the osqrt tool configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shogo82148/osqrt"
)

// Config holds the settings shared by every command.
type Config struct {
	// Strategy is auto, early or oblivious.
	Strategy string `yaml:"strategy"`

	// Scan is inclusive or exclusive.
	Scan string `yaml:"scan"`

	// Backend is plain or opaque.
	Backend string `yaml:"backend"`

	// Database is the path of the distance cache. Empty disables it.
	Database string `yaml:"database"`

	// Workers bounds the concurrency of batch jobs.
	Workers int `yaml:"workers"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Strategy: "auto",
		Scan:     "inclusive",
		Backend:  "plain",
		Workers:  8,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over the defaults. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field value.
func (c Config) Validate() error {
	if _, err := osqrt.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := osqrt.ParseScanConvention(c.Scan); err != nil {
		return err
	}
	switch c.Backend {
	case "plain", "opaque":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Options returns the kernel options of c.
func (c Config) Options() ([]osqrt.Option, error) {
	strategy, err := osqrt.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	scan, err := osqrt.ParseScanConvention(c.Scan)
	if err != nil {
		return nil, err
	}
	return []osqrt.Option{osqrt.WithStrategy(strategy), osqrt.WithScanConvention(scan)}, nil
}

// SlogLevel returns the slog level named by Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// NewLogger returns a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
