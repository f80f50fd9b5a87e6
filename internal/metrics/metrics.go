// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Metrics
	PipelineRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline executions",
		},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"stage"}, // "match", "score", "rank", "guard"
	)

	PipelineStageCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_candidates",
			Help:    "Number of candidates surviving each pipeline stage",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 30, 50, 100},
		},
		[]string{"stage"},
	)

	PipelineEmptyResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_empty_results_total",
			Help: "Total number of non-empty inputs reduced to an empty result",
		},
	)

	GuardrailRiskyTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guardrail_risky_candidates_total",
			Help: "Total number of candidates flagged risky by the guardrail filter",
		},
	)

	// Provider Metrics
	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_fetch_duration_seconds",
			Help:    "Duration of upstream provider fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ProviderFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetch_errors_total",
			Help: "Total number of failed provider fetches",
		},
		[]string{"provider"},
	)

	ProviderCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_candidates_returned",
			Help:    "Number of candidates returned per provider fetch",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"provider"},
	)

	// Trust / Explainer Metrics
	ExplainerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explainer_requests_total",
			Help: "Total number of explanation requests by strategy and result",
		},
		[]string{"strategy", "result"}, // strategy: "template", "ai"; result: "success", "fallback"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records count and latency for a completed request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordProviderFetch records one provider fetch, successful or not.
func RecordProviderFetch(provider string, duration time.Duration, candidates int, err error) {
	ProviderFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		ProviderFetchErrors.WithLabelValues(provider).Inc()
		return
	}
	ProviderCandidates.WithLabelValues(provider).Observe(float64(candidates))
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
