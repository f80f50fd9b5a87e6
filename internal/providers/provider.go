// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package providers supplies raw candidate listings from upstream data
// sources. Fan-out across providers happens before the pipeline's
// matcher; a failing provider degrades to an empty contribution, never
// to a failed query.
package providers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dealscout/internal/metrics"
	"github.com/tomtom215/dealscout/internal/pipeline"
)

// Provider is one upstream source of raw candidates.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Fetch returns candidates for the search. Implementations must
	// honor ctx cancellation.
	Fetch(ctx context.Context, input pipeline.SearchInput) ([]pipeline.RawCandidate, error)
}

// Registry fans a search out to every registered provider and merges
// the results in registration order, so the combined slice is
// deterministic for fixed provider outputs.
type Registry struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewRegistry builds a registry over the given providers.
func NewRegistry(logger zerolog.Logger, providers ...Provider) *Registry {
	return &Registry{
		providers: providers,
		logger:    logger.With().Str("component", "providers").Logger(),
	}
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// FetchAll queries every provider concurrently and concatenates their
// candidates in registration order. Provider errors are logged and
// counted but never fail the query.
func (r *Registry) FetchAll(ctx context.Context, input pipeline.SearchInput) []pipeline.RawCandidate {
	results := make([][]pipeline.RawCandidate, len(r.providers))

	var wg sync.WaitGroup
	for idx, p := range r.providers {
		wg.Add(1)
		go func(idx int, p Provider) {
			defer wg.Done()
			start := time.Now()
			candidates, err := p.Fetch(ctx, input)
			metrics.RecordProviderFetch(p.Name(), time.Since(start), len(candidates), err)
			if err != nil {
				r.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider fetch failed")
				return
			}
			results[idx] = candidates
		}(idx, p)
	}
	wg.Wait()

	total := 0
	for _, rs := range results {
		total += len(rs)
	}
	merged := make([]pipeline.RawCandidate, 0, total)
	for _, rs := range results {
		merged = append(merged, rs...)
	}
	return merged
}
