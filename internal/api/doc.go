// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package api provides HTTP routing and handlers using the Chi router.
//
// The API surface is deliberately small:
//
//   - POST /api/v1/recommendations runs the full recommendation pipeline
//     over caller-supplied or provider-fetched candidates
//   - GET  /api/v1/search fetches raw candidates from configured providers
//   - GET/PUT /api/v1/pipeline/config reads and hot-swaps pipeline tuning
//   - /api/v1/health/* exposes liveness and readiness probes
//   - /metrics exposes Prometheus metrics
package api
