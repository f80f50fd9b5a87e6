// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dealscout/config.yaml",
	"/etc/dealscout/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from three layers with clear
// precedence: environment variables > config file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: struct defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional YAML config file
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// HTTP_PORT -> server.port, LOG_LEVEL -> logging.level, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values become slices for known slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, honoring CONFIG_PATH first.
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

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when they arrive as env strings.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"pipeline.guardrail.trusted_platforms",
	"pipeline.guardrail.stricter_platforms",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice from the YAML layer
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are dropped so unrelated environment noise
// never leaks into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - EXPLAINER_ENDPOINT -> explainer.endpoint
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":        "server.host",
		"http_port":        "server.port",
		"read_timeout":     "server.read_timeout",
		"write_timeout":    "server.write_timeout",
		"idle_timeout":     "server.idle_timeout",
		"shutdown_timeout": "server.shutdown_timeout",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// API mappings
		"cors_origins":               "api.cors_origins",
		"rate_limit_requests":        "api.rate_limit_requests",
		"rate_limit_window":          "api.rate_limit_window",
		"max_candidates_per_request": "api.max_candidates_per_request",

		// Guardrail mappings
		"trusted_platforms":  "pipeline.guardrail.trusted_platforms",
		"stricter_platforms": "pipeline.guardrail.stricter_platforms",

		// Explainer mappings
		"explainer_endpoint": "explainer.endpoint",
		"explainer_timeout":  "explainer.timeout",
		"explainer_rpm":      "explainer.requests_per_minute",

		// Affiliate mappings
		"affiliate_tag": "affiliate.tag",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Everything else is ignored
	return ""
}
