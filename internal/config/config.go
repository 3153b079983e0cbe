// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package config provides layered configuration for Cadenza: struct defaults,
// an optional YAML file, then CADENZA_-prefixed environment overrides.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Catalog CatalogConfig `koanf:"catalog"`
	Tagger  TaggerConfig  `koanf:"tagger"`
	Profile ProfileConfig `koanf:"profile"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig contains catalog loading settings.
type CatalogConfig struct {
	// Path is the catalog CSV file.
	Path string `koanf:"path"`
}

// TaggerConfig contains settings for the external mood tagger.
type TaggerConfig struct {
	// Enabled controls whether the external tagger pass runs at all.
	// When false the local keyword fallback is used for every song.
	Enabled bool `koanf:"enabled"`

	// Model is the classifier model identifier.
	Model string `koanf:"model"`

	// Timeout is the per-song call deadline before falling back.
	Timeout time.Duration `koanf:"timeout"`

	// Concurrency caps parallel tagger calls during an enrichment pass.
	Concurrency int `koanf:"concurrency"`

	// RequestsPerSecond limits the outbound call rate.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// ProfileConfig is the default learner profile, applied when a request
// does not override it.
type ProfileConfig struct {
	SkillLevel       int      `koanf:"skill_level"`
	Instrument       string   `koanf:"instrument"`
	GenrePreferences []string `koanf:"genre_preferences"`
	LearningStyle    string   `koanf:"learning_style"`
	PopularityWeight float64  `koanf:"popularity_weight"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8407,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path: "catalog.csv",
		},
		Tagger: TaggerConfig{
			Enabled:           false,
			Model:             "gpt-4o-mini",
			Timeout:           10 * time.Second,
			Concurrency:       4,
			RequestsPerSecond: 2,
		},
		Profile: ProfileConfig{
			SkillLevel:       3,
			Instrument:       "piano",
			GenrePreferences: []string{"pop", "classical"},
			LearningStyle:    "",
			PopularityWeight: 0.5,
		},
	}
}

// Validate checks the configuration for errors. Out-of-range learner
// fields are not fatal here; the engine clamps them at the boundary.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if c.Tagger.Timeout <= 0 {
		return fmt.Errorf("tagger.timeout must be positive, got %v", c.Tagger.Timeout)
	}
	if c.Tagger.Concurrency < 1 {
		return fmt.Errorf("tagger.concurrency must be positive, got %d", c.Tagger.Concurrency)
	}
	if c.Tagger.RequestsPerSecond <= 0 {
		return fmt.Errorf("tagger.requests_per_second must be positive, got %f", c.Tagger.RequestsPerSecond)
	}
	if c.Profile.PopularityWeight < 0 || c.Profile.PopularityWeight > 1 {
		return fmt.Errorf("profile.popularity_weight must be in [0, 1], got %f", c.Profile.PopularityWeight)
	}
	return nil
}
