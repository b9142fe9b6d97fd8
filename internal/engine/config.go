// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package engine

import (
	"fmt"
	"time"
)

// Weights defines the relative contribution of each scoring signal.
// The contextual weight is not applied during combination; it is filled
// with a neutral 0.5 signal there and the real contextual adjustment runs
// as a separate multiplicative pass afterwards.
type Weights struct {
	Content       float64 `json:"content" koanf:"content"`
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Preference    float64 `json:"preference" koanf:"preference"`
	Contextual    float64 `json:"contextual" koanf:"contextual"`
}

// DefaultWeights returns the reference signal weights.
func DefaultWeights() Weights {
	return Weights{
		Content:       0.4,
		Collaborative: 0.3,
		Preference:    0.1,
		Contextual:    0.2,
	}
}

// Config holds orchestrator parameters.
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`

	// DefaultMaxResults applies when a request does not set max_results.
	DefaultMaxResults int `json:"default_max_results" koanf:"default_max_results"`

	// HistoryLimit bounds the per-user recommendation history.
	HistoryLimit int `json:"history_limit" koanf:"history_limit"`

	// TTL is how long a recommendation stays valid.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// AlternativeFloor is the minimum content similarity for an
	// alternative item.
	AlternativeFloor float64 `json:"alternative_floor" koanf:"alternative_floor"`

	// MaxAlternatives caps alternatives per recommendation.
	MaxAlternatives int `json:"max_alternatives" koanf:"max_alternatives"`
}

// DefaultConfig returns the reference orchestrator parameters.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		DefaultMaxResults: 10,
		HistoryLimit:      100,
		TTL:               24 * time.Hour,
		AlternativeFloor:  0.5,
		MaxAlternatives:   2,
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Weights.Content < 0 || c.Weights.Collaborative < 0 ||
		c.Weights.Preference < 0 || c.Weights.Contextual < 0 {
		return fmt.Errorf("signal weights must be non-negative")
	}
	if c.Weights.Content+c.Weights.Collaborative+c.Weights.Preference+c.Weights.Contextual == 0 {
		return fmt.Errorf("at least one signal weight must be positive")
	}
	if c.DefaultMaxResults <= 0 {
		return fmt.Errorf("default_max_results must be positive, got %d", c.DefaultMaxResults)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", c.TTL)
	}
	if c.AlternativeFloor < -1 || c.AlternativeFloor > 1 {
		return fmt.Errorf("alternative_floor must be within [-1, 1], got %f", c.AlternativeFloor)
	}
	if c.MaxAlternatives < 0 {
		return fmt.Errorf("max_alternatives must be non-negative, got %d", c.MaxAlternatives)
	}
	return nil
}
