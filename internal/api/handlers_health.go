// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the GET /api/v1/health payload.
type HealthStatus struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Providers []string `json:"providers"`
	Uptime    float64  `json:"uptime_seconds"`
}

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Health returns overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var names []string
	if h.registry != nil {
		names = h.registry.Providers()
	}

	respondJSON(w, http.StatusOK, successResponse(HealthStatus{
		Status:    "healthy",
		Version:   Version,
		Providers: names,
		Uptime:    time.Since(h.startTime).Seconds(),
	}, started))
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, started))
}

// HealthReady handles readiness probe requests. The pipeline is pure
// and always ready once constructed, so readiness only checks that the
// handler was wired with a pipeline.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if h.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Pipeline is not initialized", nil)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"ready": true,
	}, started))
}
