// Package config loads settings from the environment and an optional .env
// file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is shared by every variable this package reads.
const EnvPrefix = "PARSER_"

// Config holds the application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	// Environment variable: PARSER_ADDR
	Addr string `koanf:"PARSER_ADDR"`

	// LogLevel is one of debug, info, warn, error.
	// Environment variable: PARSER_LOG_LEVEL
	LogLevel string `koanf:"PARSER_LOG_LEVEL"`

	// LogJSON switches logs to JSON lines.
	// Environment variable: PARSER_LOG_JSON
	LogJSON bool `koanf:"PARSER_LOG_JSON"`

	// MaxUploadMB caps the request body of the parse endpoint.
	// Environment variable: PARSER_MAX_UPLOAD_MB
	MaxUploadMB int `koanf:"PARSER_MAX_UPLOAD_MB"`

	// XTolerance is the glyph gap, in points, that layout text turns into
	// a space.
	// Environment variable: PARSER_X_TOLERANCE
	XTolerance float64 `koanf:"PARSER_X_TOLERANCE"`

	// Workers bounds how many files the CLI parses at once.
	// Environment variable: PARSER_WORKERS
	Workers int `koanf:"PARSER_WORKERS"`

	// PostgresDSN enables storing parsed statements when set.
	// Environment variable: PARSER_POSTGRES_DSN
	PostgresDSN string `koanf:"PARSER_POSTGRES_DSN"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:        ":8000",
		LogLevel:    "info",
		MaxUploadMB: 32,
		XTolerance:  2,
		Workers:     4,
	}
}

// Load reads envFile (if it exists) into the process environment, then
// overlays PARSER_* variables onto the defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server or CLI cannot run with.
func (c Config) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("PARSER_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("PARSER_WORKERS must be positive, got %d", c.Workers)
	}
	if c.XTolerance <= 0 {
		return fmt.Errorf("PARSER_X_TOLERANCE must be positive, got %g", c.XTolerance)
	}
	return nil
}
