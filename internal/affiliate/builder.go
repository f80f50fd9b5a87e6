// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package affiliate turns product references into tracking links via
// per-platform URL templates. Link building happens strictly after
// guardrail filtering and never influences candidate selection.
package affiliate

import (
	"net/url"
	"strings"
)

// Config maps lowercase platform names to URL templates. Templates may
// reference {id}, {url}, and {tag}; values are URL-escaped before
// substitution.
type Config struct {
	Templates map[string]string `json:"templates" koanf:"templates"`

	// Tag is the affiliate/partner identifier substituted for {tag}.
	Tag string `json:"tag" koanf:"tag"`
}

// DefaultConfig returns an empty template set: without configuration,
// Link passes product URLs through untouched.
func DefaultConfig() Config {
	return Config{Templates: map[string]string{}}
}

// Builder resolves tracking links.
type Builder struct {
	templates map[string]string
	tag       string
}

// NewBuilder builds a Builder from configuration.
func NewBuilder(cfg Config) *Builder {
	templates := make(map[string]string, len(cfg.Templates))
	for platform, tmpl := range cfg.Templates {
		templates[strings.ToLower(strings.TrimSpace(platform))] = tmpl
	}
	return &Builder{templates: templates, tag: cfg.Tag}
}

// Link maps (platform, product id or URL) to a tracking URL. Platforms
// without a template fall back to the raw product URL.
func (b *Builder) Link(platform, productID, productURL string) string {
	tmpl, ok := b.templates[strings.ToLower(strings.TrimSpace(platform))]
	if !ok || tmpl == "" {
		return productURL
	}
	out := strings.ReplaceAll(tmpl, "{id}", url.QueryEscape(productID))
	out = strings.ReplaceAll(out, "{url}", url.QueryEscape(productURL))
	out = strings.ReplaceAll(out, "{tag}", url.QueryEscape(b.tag))
	return out
}
