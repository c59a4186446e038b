// Package config loads CLI defaults from a YAML file.
//
// Precedence is flags, then the config file, then Default. A field left
// out of the file keeps its default.
//
//	workers: 8
//	default_format: gray16
//	default_mode: xy
//	width: 512
//	height: 512
//	domain: {x: 0, y: 0, w: 4, h: 4}
//	database: ~/.noisegraph/catalog.db
//	log_level: debug
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/noisegraph/internal/mapping"
)

// Config holds CLI defaults.
type Config struct {
	Workers       int          `yaml:"workers"`
	DefaultFormat string       `yaml:"default_format"`
	DefaultMode   string       `yaml:"default_mode"`
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	Domain        mapping.Rect `yaml:"domain"`
	Database      string       `yaml:"database"`
	LogLevel      string       `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:       0, // one per CPU
		DefaultFormat: mapping.RGBA8.String(),
		DefaultMode:   mapping.SeamlessNone.String(),
		Width:         256,
		Height:        256,
		Domain:        mapping.DefaultDomain,
		LogLevel:      "info",
	}
}

// Load reads path over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.parse(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Database = expandHome(cfg.Database)
	return cfg, nil
}

// Parse decodes YAML over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.parse(data); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) parse(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return c.Validate()
}

// Validate checks that every enumerated field parses and sizes are sane.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := mapping.ParseFormat(c.DefaultFormat); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	if _, err := mapping.ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("default_mode: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Domain.W == 0 || c.Domain.H == 0 {
		return fmt.Errorf("domain must have a nonzero extent")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel parses debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
