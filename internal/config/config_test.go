// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
	if cfg.Server.Port != 8750 {
		t.Errorf("Port = %d, want 8750", cfg.Server.Port)
	}
	if cfg.Pipeline == nil {
		t.Fatal("Pipeline config missing")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero rate limit", func(c *Config) { c.API.RateLimitReqs = 0 }, true},
		{"zero candidate cap", func(c *Config) { c.API.MaxCandidatesPerRequest = 0 }, true},
		{"bad pipeline weights", func(c *Config) { c.Pipeline.Scorer.Weights.Price = 0.9 }, true},
		{"bad trust percentile", func(c *Config) { c.Trust.MostReviewedPercentile = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "api.cors_origins"},
		{"TRUSTED_PLATFORMS", "pipeline.guardrail.trusted_platforms"},
		{"EXPLAINER_ENDPOINT", "explainer.endpoint"},
		{"AFFILIATE_TAG", "affiliate.tag"},
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_UNRELATED_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Server.Port != 8750 {
			t.Errorf("Port = %d, want default 8750", cfg.Server.Port)
		}
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server:\n  port: 9100\nlogging:\n  level: debug\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Server.Port != 9100 {
			t.Errorf("Port = %d, want 9100", cfg.Server.Port)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Logging.Level)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("Host = %q, want untouched default", cfg.Server.Host)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("HTTP_PORT", "9200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Server.Port != 9200 {
			t.Errorf("Port = %d, want 9200 from environment", cfg.Server.Port)
		}
	})

	t.Run("comma separated env slices", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("TRUSTED_PLATFORMS", "amazon, bestbuy ,target")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		got := cfg.Pipeline.Guardrail.TrustedPlatforms
		want := []string{"amazon", "bestbuy", "target"}
		if len(got) != len(want) {
			t.Fatalf("TrustedPlatforms = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("TrustedPlatforms[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("HTTP_PORT", "99999")

		if _, err := Load(); err == nil {
			t.Error("Load() accepted an out-of-range port")
		}
	})
}
