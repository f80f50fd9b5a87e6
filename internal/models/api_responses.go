// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package models holds the shared HTTP response envelope used by every
// API endpoint.
package models

import "time"

// APIResponse is the standardized response wrapper for all endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only when Status is "error".
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"candidates": [...]},
//	  "metadata": {"timestamp": "2026-09-01T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	// Timestamp is the server time the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the pipeline execution time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`
}

// APIError is a structured error payload.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, RATE_LIMIT_EXCEEDED,
// INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
