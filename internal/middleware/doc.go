// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package middleware provides HTTP middleware for request tracing,
// Prometheus instrumentation, and response compression.
package middleware
