// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/dealscout/internal/logging"
	"github.com/tomtom215/dealscout/internal/pipeline"
)

// SearchResponse is the GET /api/v1/search payload.
type SearchResponse struct {
	Providers  []string                `json:"providers"`
	Candidates []pipeline.RawCandidate `json:"candidates"`
}

// Search fetches raw candidates from every configured provider without
// running the pipeline. Useful for inspecting provider output and for
// clients that do their own post-processing.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter q is required", nil)
		return
	}

	if h.registry == nil || len(h.registry.Providers()) == 0 {
		respondError(w, http.StatusServiceUnavailable, "NO_PROVIDERS", "No candidate providers are configured", nil)
		return
	}

	input := pipeline.SearchInput{
		Query: query,
		Type:  pipeline.SearchTypeKeyword,
	}

	candidates := h.registry.FetchAll(r.Context(), input)

	limit := getIntParam(r, "limit", 0)
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	logging.Ctx(r.Context()).Debug().
		Str("query", sanitizeLogValue(query)).
		Int("candidates", len(candidates)).
		Dur("duration", time.Since(started)).
		Msg("Search request served")

	respondJSON(w, http.StatusOK, successResponse(SearchResponse{
		Providers:  h.registry.Providers(),
		Candidates: candidates,
	}, started))
}
