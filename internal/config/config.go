// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package config loads application configuration using Koanf v2 with
// layered sources: built-in defaults, then an optional YAML file, then
// EXCURSIO_-prefixed environment variables. Precedence is ENV > file >
// defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/excursio/excursio/internal/engine"
	"github.com/excursio/excursio/internal/logging"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/excursio/config.yaml",
	"/etc/excursio/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "EXCURSIO_CONFIG_PATH"

// envPrefix namespaces all environment variable overrides.
const envPrefix = "EXCURSIO_"

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is requests per client IP per minute. Zero disables
	// rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// CORSOrigins lists allowed CORS origins. Empty allows none.
	CORSOrigins []string `koanf:"cors_origins"`
}

// EngineConfig groups the recommendation engine tunables.
type EngineConfig struct {
	Weights engine.Weights `koanf:"weights"`

	DefaultMaxResults int           `koanf:"default_max_results"`
	HistoryLimit      int           `koanf:"history_limit"`
	TTL               time.Duration `koanf:"ttl"`
	AlternativeFloor  float64       `koanf:"alternative_floor"`
	MaxAlternatives   int           `koanf:"max_alternatives"`

	// MaxVocabulary caps the content feature vocabulary size.
	MaxVocabulary int `koanf:"max_vocabulary"`

	// SVDComponents is the collaborative factorization rank.
	SVDComponents int `koanf:"svd_components"`

	// MinInteractions is the collaborative rebuild batch threshold.
	MinInteractions int `koanf:"min_interactions"`

	// LearningRate and DecayFactor tune preference learning.
	LearningRate float64 `koanf:"learning_rate"`
	DecayFactor  float64 `koanf:"decay_factor"`
}

// CatalogConfig controls item catalog loading.
type CatalogConfig struct {
	// Path is an optional JSON file with the item catalog. Empty loads
	// the built-in sample catalog.
	Path string `koanf:"path"`
}

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Engine  EngineConfig   `koanf:"engine"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Logging logging.Config `koanf:"logging"`
}

// defaultConfig returns the built-in defaults, overridden by file and
// environment layers.
func defaultConfig() *Config {
	eng := engine.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       100,
			CORSOrigins:     []string{"*"},
		},
		Engine: EngineConfig{
			Weights:           eng.Weights,
			DefaultMaxResults: eng.DefaultMaxResults,
			HistoryLimit:      eng.HistoryLimit,
			TTL:               eng.TTL,
			AlternativeFloor:  eng.AlternativeFloor,
			MaxAlternatives:   eng.MaxAlternatives,
			MaxVocabulary:     1000,
			SVDComponents:     50,
			MinInteractions:   5,
			LearningRate:      0.1,
			DecayFactor:       0.95,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load assembles configuration from defaults, an optional YAML file and
// environment variables, validates it and returns the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// EXCURSIO_SERVER_PORT -> server.port
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	processSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// EngineSettings converts the flat engine section into the engine's own
// config type.
func (c *Config) EngineSettings() engine.Config {
	return engine.Config{
		Weights:           c.Engine.Weights,
		DefaultMaxResults: c.Engine.DefaultMaxResults,
		HistoryLimit:      c.Engine.HistoryLimit,
		TTL:               c.Engine.TTL,
		AlternativeFloor:  c.Engine.AlternativeFloor,
		MaxAlternatives:   c.Engine.MaxAlternatives,
	}
}

// Validate checks cross-field constraints not covered by the engine's
// own validation.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be non-negative, got %d", c.Server.RateLimit)
	}
	if c.Engine.MaxVocabulary <= 0 {
		return fmt.Errorf("engine.max_vocabulary must be positive, got %d", c.Engine.MaxVocabulary)
	}
	if c.Engine.SVDComponents <= 0 {
		return fmt.Errorf("engine.svd_components must be positive, got %d", c.Engine.SVDComponents)
	}
	if c.Engine.MinInteractions <= 0 {
		return fmt.Errorf("engine.min_interactions must be positive, got %d", c.Engine.MinInteractions)
	}
	if c.Engine.LearningRate <= 0 || c.Engine.LearningRate > 1 {
		return fmt.Errorf("engine.learning_rate must be within (0, 1], got %g", c.Engine.LearningRate)
	}
	if c.Engine.DecayFactor <= 0 || c.Engine.DecayFactor > 1 {
		return fmt.Errorf("engine.decay_factor must be within (0, 1], got %g", c.Engine.DecayFactor)
	}

	ec := c.EngineSettings()
	return ec.Validate()
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps EXCURSIO_SERVER_READ_TIMEOUT to server.read_timeout.
// Only the first underscore separates the section from the key, so
// multi-word keys survive.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if s == "config_path" {
		return ""
	}
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// sliceConfigPaths are parsed from comma-separated strings when set via
// environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		s, ok := val.(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		_ = k.Set(path, out)
	}
}
