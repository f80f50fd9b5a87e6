// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package trust

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/dealscout/internal/pipeline"
	"github.com/tomtom215/dealscout/internal/resilience"
)

// Explainer generates a plain-language explanation for a near-tied
// top-two comparison. Implementations may fail; callers must fall back
// to the deterministic template.
type Explainer interface {
	Explain(ctx context.Context, top, runnerUp pipeline.GuardedCandidate) (Explanation, error)
}

// ExplainerConfig configures the HTTP-backed AI explainer.
type ExplainerConfig struct {
	// Endpoint is the explanation service URL. Empty disables the
	// explainer entirely.
	Endpoint string `json:"endpoint" koanf:"endpoint"`

	// Timeout bounds a single explanation request.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// RequestsPerMinute caps outbound calls. Excess requests fail fast
	// to the template instead of queueing.
	RequestsPerMinute int `json:"requests_per_minute" koanf:"requests_per_minute"`
}

// DefaultExplainerConfig returns the explainer defaults. The endpoint
// is empty, so the explainer stays disabled until configured.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{
		Timeout:           5 * time.Second,
		RequestsPerMinute: 30,
	}
}

// HTTPExplainer calls an external explanation service, guarded by a
// circuit breaker and a client-side rate limit.
type HTTPExplainer struct {
	endpoint string
	client   *http.Client
	breaker  *resilience.Breaker[*Explanation]
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

var _ Explainer = (*HTTPExplainer)(nil)

// NewHTTPExplainer builds the AI explainer, or nil when no endpoint is
// configured.
func NewHTTPExplainer(cfg ExplainerConfig, logger zerolog.Logger) *HTTPExplainer {
	if cfg.Endpoint == "" {
		return nil
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPExplainer{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  resilience.NewBreaker[*Explanation]("ai-explainer"),
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm),
		logger:   logger.With().Str("component", "explainer").Logger(),
	}
}

type explainRequest struct {
	Top      pipeline.GuardedCandidate `json:"top"`
	RunnerUp pipeline.GuardedCandidate `json:"runner_up"`
}

type explainResponse struct {
	Points    []string `json:"points"`
	Sentiment string   `json:"sentiment"`
}

// Explain requests an explanation for the near-tied pair. It fails
// fast under rate pressure or an open breaker so the caller's template
// fallback keeps latency flat.
func (e *HTTPExplainer) Explain(ctx context.Context, top, runnerUp pipeline.GuardedCandidate) (Explanation, error) {
	if !e.limiter.Allow() {
		return Explanation{}, fmt.Errorf("explainer: rate limit exceeded")
	}

	expl, err := e.breaker.Execute(func() (*Explanation, error) {
		return e.call(ctx, top, runnerUp)
	})
	if err != nil {
		return Explanation{}, err
	}
	return *expl, nil
}

func (e *HTTPExplainer) call(ctx context.Context, top, runnerUp pipeline.GuardedCandidate) (*Explanation, error) {
	body, err := json.Marshal(explainRequest{Top: top, RunnerUp: runnerUp})
	if err != nil {
		return nil, fmt.Errorf("explainer: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("explainer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explainer: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explainer: unexpected status %d", resp.StatusCode)
	}

	var decoded explainResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("explainer: decode response: %w", err)
	}
	if len(decoded.Points) == 0 {
		return nil, fmt.Errorf("explainer: empty explanation")
	}
	if len(decoded.Points) > 3 {
		decoded.Points = decoded.Points[:3]
	}

	sentiment := Sentiment(decoded.Sentiment)
	switch sentiment {
	case SentimentPositive, SentimentNeutral, SentimentCautious:
	default:
		sentiment = SentimentNeutral
	}

	return &Explanation{Points: decoded.Points, Sentiment: sentiment, Generated: true}, nil
}
