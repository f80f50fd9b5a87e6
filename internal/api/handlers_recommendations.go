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
	"github.com/tomtom215/dealscout/internal/trust"
)

// maxRequestBodyBytes caps recommendation request bodies. Candidate
// arrays can be large but are bounded by MaxCandidatesPerRequest.
const maxRequestBodyBytes = 8 << 20 // 8 MiB

// RecommendationRequest is the POST /api/v1/recommendations body.
type RecommendationRequest struct {
	Query       string                  `json:"query" validate:"required,min=1,max=500"`
	Type        pipeline.SearchType     `json:"type" validate:"omitempty,oneof=url keyword"`
	Source      *pipeline.SourceProduct `json:"source,omitempty"`
	Constraints *pipeline.Constraints   `json:"constraints,omitempty"`

	// Candidates is the raw candidate set to evaluate. When empty, the
	// configured providers are queried instead.
	Candidates []pipeline.RawCandidate `json:"candidates,omitempty"`
}

// RecommendationResponse is the POST /api/v1/recommendations payload.
type RecommendationResponse struct {
	Candidates []trust.AnnotatedCandidate `json:"candidates"`
	Stats      pipeline.StageStats        `json:"stats"`
}

// Recommendations runs the full pipeline over the submitted candidates
// and returns the annotated result set.
//
// The view query parameter selects the response shape:
//
//	view=strict (default) returns recommended candidates without risk flags
//	view=all returns the full partitioned set, risky entries included
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req RecommendationRequest
	if err := decodeJSONBody(w, r, &req, maxRequestBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON", err)
		return
	}

	if req.Type == "" {
		req.Type = pipeline.SearchTypeKeyword
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if limit := h.config.API.MaxCandidatesPerRequest; len(req.Candidates) > limit {
		respondError(w, http.StatusRequestEntityTooLarge, "TOO_MANY_CANDIDATES",
			"Candidate set exceeds the configured maximum", nil)
		return
	}

	input := pipeline.SearchInput{
		Query:       req.Query,
		Type:        req.Type,
		Source:      req.Source,
		Constraints: req.Constraints,
	}

	raw := req.Candidates
	if len(raw) == 0 && h.registry != nil {
		raw = h.registry.FetchAll(r.Context(), input)
	}

	result := h.pipeline.Run(input, raw)

	view := r.URL.Query().Get("view")
	candidates := result.Candidates
	if view != "all" {
		candidates = result.Recommended()
	}

	annotated := h.annotate(r, candidates)

	logging.Ctx(r.Context()).Info().
		Str("query", sanitizeLogValue(req.Query)).
		Str("view", sanitizeLogValue(view)).
		Int("raw", result.Stats.RawCount).
		Int("returned", len(annotated)).
		Dur("duration", time.Since(started)).
		Msg("Recommendation request served")

	respondJSON(w, http.StatusOK, successResponse(RecommendationResponse{
		Candidates: annotated,
		Stats:      result.Stats,
	}, started))
}

// annotate layers trust annotations and affiliate links over the
// guarded candidates.
func (h *Handler) annotate(r *http.Request, candidates []pipeline.GuardedCandidate) []trust.AnnotatedCandidate {
	annotations := h.annotator.Annotate(r.Context(), candidates)

	out := make([]trust.AnnotatedCandidate, len(candidates))
	for i := range candidates {
		out[i] = trust.AnnotatedCandidate{GuardedCandidate: candidates[i]}
		if i < len(annotations) {
			out[i].Trust = &annotations[i]
		}
		if h.affiliate != nil {
			out[i].AffiliateURL = h.affiliate.Link(candidates[i].Platform, candidates[i].ID, candidates[i].URL)
		}
	}
	return out
}
