// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dealscout/internal/pipeline"
	"github.com/tomtom215/dealscout/internal/resilience"
)

// HTTPProviderConfig configures one API-backed candidate source.
type HTTPProviderConfig struct {
	Name     string        `json:"name" koanf:"name"`
	Endpoint string        `json:"endpoint" koanf:"endpoint"`
	APIKey   string        `json:"api_key" koanf:"api_key"`
	Timeout  time.Duration `json:"timeout" koanf:"timeout"`
}

// HTTPProvider fetches candidates from a marketplace search API. Each
// provider carries its own circuit breaker so one flaky upstream
// cannot degrade the rest of the fan-out.
type HTTPProvider struct {
	cfg     HTTPProviderConfig
	client  *http.Client
	breaker *resilience.Breaker[[]pipeline.RawCandidate]
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider builds an API-backed provider.
func NewHTTPProvider(cfg HTTPProviderConfig) (*HTTPProvider, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("http provider: name required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("http provider %s: invalid endpoint %q", cfg.Name, cfg.Endpoint)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		breaker: resilience.NewBreaker[[]pipeline.RawCandidate]("provider-" + cfg.Name),
	}, nil
}

// Name implements Provider.
func (p *HTTPProvider) Name() string { return p.cfg.Name }

type searchResponse struct {
	Candidates []pipeline.RawCandidate `json:"candidates"`
}

// Fetch queries the upstream search endpoint under breaker protection.
func (p *HTTPProvider) Fetch(ctx context.Context, input pipeline.SearchInput) ([]pipeline.RawCandidate, error) {
	return p.breaker.Execute(func() ([]pipeline.RawCandidate, error) {
		return p.search(ctx, input.Query)
	})
}

func (p *HTTPProvider) search(ctx context.Context, query string) ([]pipeline.RawCandidate, error) {
	u, err := url.Parse(p.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("provider %s: parse endpoint: %w", p.cfg.Name, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: build request: %w", p.cfg.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider %s: request failed: %w", p.cfg.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s: unexpected status %d", p.cfg.Name, resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("provider %s: decode response: %w", p.cfg.Name, err)
	}
	// Stamp the provider name onto records that omit their platform.
	for i := range decoded.Candidates {
		if decoded.Candidates[i].Platform == "" {
			decoded.Candidates[i].Platform = p.cfg.Name
		}
	}
	return decoded.Candidates, nil
}
