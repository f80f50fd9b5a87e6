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

// PipelineConfigGet returns the active pipeline configuration.
func (h *Handler) PipelineConfigGet(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondJSON(w, http.StatusOK, successResponse(h.pipeline.Config(), started))
}

// PipelineConfigUpdate atomically replaces the pipeline configuration.
// The new configuration is validated before it takes effect; an invalid
// body leaves the previous configuration untouched.
func (h *Handler) PipelineConfigUpdate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var cfg pipeline.Config
	if err := decodeStrictJSONBody(w, r, &cfg, 1<<20); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON", err)
		return
	}

	if err := h.pipeline.SetConfig(&cfg); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "INVALID_CONFIG", err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Pipeline configuration updated")

	respondJSON(w, http.StatusOK, successResponse(h.pipeline.Config(), started))
}
