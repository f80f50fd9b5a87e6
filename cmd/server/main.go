// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package main is the entry point for the DealScout server.
//
// DealScout finds cheaper or better-reviewed alternatives for a product
// across marketplaces. A search runs through a deterministic four-stage
// pipeline (matching, scoring, ranking, guardrails), then a trust
// annotation layer prepares the result for display.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (env > config file > defaults)
//  2. Pipeline: the pure recommendation pipeline with its tuning config
//  3. Providers: candidate sources (JSON catalogs, HTTP marketplaces)
//  4. Trust annotator: labels, explanations, and risk disclosures
//  5. HTTP Server: Chi REST API with Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
// CONFIG_PATH overrides the config file location.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections and waits for in-flight requests up to
// server.shutdown_timeout.
//
// # Example Usage
//
//	export HTTP_PORT=8750
//	export LOG_LEVEL=debug
//	./dealscout
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/tomtom215/dealscout/internal/affiliate"
	"github.com/tomtom215/dealscout/internal/api"
	"github.com/tomtom215/dealscout/internal/config"
	"github.com/tomtom215/dealscout/internal/logging"
	"github.com/tomtom215/dealscout/internal/pipeline"
	"github.com/tomtom215/dealscout/internal/providers"
	"github.com/tomtom215/dealscout/internal/trust"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("Starting DealScout")

	// Pure recommendation pipeline
	pipe, err := pipeline.New(cfg.Pipeline, logging.WithComponent("pipeline"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize pipeline")
	}

	// Candidate providers
	registry, err := buildRegistry(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize providers")
	}
	logging.Info().Strs("providers", registry.Providers()).Msg("Providers initialized")

	// Trust annotation layer, with optional AI explainer
	explainer := trust.NewHTTPExplainer(cfg.Explainer, logging.WithComponent("explainer"))
	var explainerIface trust.Explainer
	if explainer != nil {
		explainerIface = explainer
		logging.Info().Str("endpoint", cfg.Explainer.Endpoint).Msg("AI explainer enabled")
	}
	annotator := trust.NewAnnotator(cfg.Trust, explainerIface, logging.WithComponent("trust"))

	links := affiliate.NewBuilder(cfg.Affiliate)

	// HTTP layer
	handler := api.NewHandler(pipe, annotator, registry, links, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins:   cfg.API.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.API.RateLimitReqs,
		RateLimitWindow:      cfg.API.RateLimitWindow,
	}))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Serve until a shutdown signal arrives
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildRegistry assembles the provider registry from configuration.
// File catalogs are loaded eagerly; a missing catalog is fatal since it
// indicates a misconfigured deployment.
func buildRegistry(cfg *config.Config) (*providers.Registry, error) {
	var list []providers.Provider

	// Sort catalog names so registration order is stable across restarts
	names := make([]string, 0, len(cfg.Providers.Catalogs))
	for name := range cfg.Providers.Catalogs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fp, err := providers.NewFileProvider(name, cfg.Providers.Catalogs[name])
		if err != nil {
			return nil, fmt.Errorf("catalog provider %q: %w", name, err)
		}
		list = append(list, fp)
	}

	for _, hc := range cfg.Providers.HTTP {
		if hc.Timeout <= 0 {
			hc.Timeout = 10 * time.Second
		}
		hp, err := providers.NewHTTPProvider(hc)
		if err != nil {
			return nil, fmt.Errorf("http provider %q: %w", hc.Name, err)
		}
		list = append(list, hp)
	}

	return providers.NewRegistry(logging.WithComponent("providers"), list...), nil
}
