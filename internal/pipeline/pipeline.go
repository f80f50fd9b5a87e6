// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package pipeline implements the four-stage recommendation pipeline:
// matching, scoring, badge ranking, and guardrail filtering. Every
// stage is a pure function of its input slice plus configuration, so
// the pipeline is safe to run concurrently across requests.
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dealscout/internal/metrics"
)

// Pipeline runs the full matching, scoring, ranking, and guardrail
// sequence for a search. The zero value is not usable; construct with
// New.
type Pipeline struct {
	mu     sync.RWMutex
	cfg    *Config
	logger zerolog.Logger
}

// New validates the configuration and returns a ready Pipeline. A nil
// config uses DefaultConfig.
func New(cfg *Config, logger zerolog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &Pipeline{
		cfg:    cfg.Clone(),
		logger: logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Config returns a copy of the active configuration.
func (p *Pipeline) Config() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Clone()
}

// SetConfig validates and atomically replaces the configuration.
// In-flight runs finish with the configuration they started with.
func (p *Pipeline) SetConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("pipeline config: nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}
	p.mu.Lock()
	p.cfg = cfg.Clone()
	p.mu.Unlock()
	p.logger.Info().Msg("pipeline configuration replaced")
	return nil
}

// Run processes raw candidates through all four stages and returns the
// guarded set in final rank order. Run never returns an error: empty
// or degenerate input yields an empty result.
func (p *Pipeline) Run(input SearchInput, raw []RawCandidate) *Result {
	p.mu.RLock()
	cfg := p.cfg
	p.mu.RUnlock()

	start := time.Now()
	metrics.PipelineRunsTotal.Inc()

	matched := timedStage(p, "match", len(raw), func() []RawCandidate {
		return Match(input, raw, cfg.Matcher)
	})
	scored := timedStage(p, "score", len(matched), func() []ScoredCandidate {
		return Score(input, matched, cfg.Scorer)
	})
	ranked := timedStage(p, "rank", len(scored), func() []RankedCandidate {
		return Rank(scored, cfg.Ranker)
	})
	guarded := timedStage(p, "guard", len(ranked), func() []GuardedCandidate {
		return Guard(ranked, cfg.Guardrail)
	})

	result := &Result{
		Candidates: guarded,
		Stats: StageStats{
			RawCount:     len(raw),
			MatchedCount: len(matched),
			ScoredCount:  len(scored),
		},
	}
	for _, g := range guarded {
		if g.IsRecommended {
			result.Stats.RecommendedCnt++
		}
		if g.IsRisky {
			result.Stats.RiskyCount++
			metrics.GuardrailRiskyTotal.Inc()
		}
	}
	if len(raw) > 0 && len(guarded) == 0 {
		metrics.PipelineEmptyResultsTotal.Inc()
	}

	p.logger.Debug().
		Str("query", input.Query).
		Int("raw", len(raw)).
		Int("matched", len(matched)).
		Int("scored", len(scored)).
		Int("recommended", result.Stats.RecommendedCnt).
		Int("risky", result.Stats.RiskyCount).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run complete")

	return result
}

func timedStage[T any](p *Pipeline, stage string, in int, fn func() []T) []T {
	start := time.Now()
	out := fn()
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	metrics.PipelineStageCandidates.WithLabelValues(stage).Observe(float64(len(out)))
	p.logger.Trace().Str("stage", stage).Int("in", in).Int("out", len(out)).Msg("stage complete")
	return out
}
