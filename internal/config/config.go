// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package config defines the application configuration tree and its
// layered koanf loader: struct defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/dealscout/internal/affiliate"
	"github.com/tomtom215/dealscout/internal/pipeline"
	"github.com/tomtom215/dealscout/internal/providers"
	"github.com/tomtom215/dealscout/internal/trust"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig           `koanf:"server"`
	Logging   LoggingConfig          `koanf:"logging"`
	API       APIConfig              `koanf:"api"`
	Providers ProvidersConfig        `koanf:"providers"`
	Pipeline  *pipeline.Config       `koanf:"pipeline"`
	Trust     trust.Config           `koanf:"trust"`
	Explainer trust.ExplainerConfig  `koanf:"explainer"`
	Affiliate affiliate.Config       `koanf:"affiliate"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// APIConfig controls cross-cutting HTTP behavior.
type APIConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// MaxCandidatesPerRequest caps the request body candidate array.
	MaxCandidatesPerRequest int `koanf:"max_candidates_per_request"`
}

// ProvidersConfig lists configured upstream candidate sources.
type ProvidersConfig struct {
	// Catalogs maps provider names to JSON catalog file paths.
	Catalogs map[string]string `koanf:"catalogs"`

	// HTTP lists API-backed providers.
	HTTP []providers.HTTPProviderConfig `koanf:"http"`
}

// Default returns the built-in defaults, applied before the config
// file and environment layers.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8750,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		API: APIConfig{
			CORSOrigins:             []string{"*"},
			RateLimitReqs:           100,
			RateLimitWindow:         time.Minute,
			MaxCandidatesPerRequest: 500,
		},
		Providers: ProvidersConfig{
			Catalogs: map[string]string{},
		},
		Pipeline:  pipeline.DefaultConfig(),
		Trust:     trust.DefaultConfig(),
		Explainer: trust.DefaultExplainerConfig(),
		Affiliate: affiliate.DefaultConfig(),
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.API.RateLimitReqs <= 0 {
		return fmt.Errorf("api.rate_limit_requests must be positive, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.API.RateLimitWindow)
	}
	if c.API.MaxCandidatesPerRequest <= 0 {
		return fmt.Errorf("api.max_candidates_per_request must be positive, got %d", c.API.MaxCandidatesPerRequest)
	}
	if c.Pipeline == nil {
		return fmt.Errorf("pipeline configuration missing")
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Trust.Validate(); err != nil {
		return err
	}
	return nil
}
