// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package api

import (
	"time"

	"github.com/tomtom215/dealscout/internal/affiliate"
	"github.com/tomtom215/dealscout/internal/config"
	"github.com/tomtom215/dealscout/internal/pipeline"
	"github.com/tomtom215/dealscout/internal/providers"
	"github.com/tomtom215/dealscout/internal/trust"
)

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	pipeline  *pipeline.Pipeline
	annotator *trust.Annotator
	registry  *providers.Registry
	affiliate *affiliate.Builder
	config    *config.Config
	startTime time.Time
}

// NewHandler creates an API handler with the given dependencies.
func NewHandler(p *pipeline.Pipeline, annotator *trust.Annotator, registry *providers.Registry, links *affiliate.Builder, cfg *config.Config) *Handler {
	return &Handler{
		pipeline:  p,
		annotator: annotator,
		registry:  registry,
		affiliate: links,
		config:    cfg,
		startTime: time.Now(),
	}
}
