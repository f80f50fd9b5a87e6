// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dealscout/internal/pipeline"
)

// FileProvider serves candidates from a JSON catalog on disk. Useful
// for fixtures, demos, and offline development.
type FileProvider struct {
	name    string
	catalog []pipeline.RawCandidate
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider loads the catalog eagerly so a malformed file fails
// at startup, not mid-query.
func NewFileProvider(name, path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file provider %s: read catalog: %w", name, err)
	}
	var catalog []pipeline.RawCandidate
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("file provider %s: parse catalog: %w", name, err)
	}
	return &FileProvider{name: name, catalog: catalog}, nil
}

// Name implements Provider.
func (p *FileProvider) Name() string { return p.name }

// Fetch returns catalog entries whose title shares at least one word
// with the query. An empty query returns the whole catalog; fine-
// grained relevance filtering is the matcher's job.
func (p *FileProvider) Fetch(ctx context.Context, input pipeline.SearchInput) ([]pipeline.RawCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := queryTerms(input.Query)
	if len(terms) == 0 {
		return append([]pipeline.RawCandidate(nil), p.catalog...), nil
	}

	out := make([]pipeline.RawCandidate, 0, len(p.catalog))
	for _, c := range p.catalog {
		title := strings.ToLower(c.Title)
		for _, t := range terms {
			if strings.Contains(title, t) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 2 {
			terms = append(terms, w)
		}
	}
	return terms
}
