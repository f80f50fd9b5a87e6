// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"DISABLED", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Info().Str("component", "pipeline").Int("candidates", 7).Msg("run complete")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "pipeline" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["message"] != "run complete" {
		t.Errorf("message = %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf).With().Str("request_id", "req-1").Logger())

	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("output missing request id: %s", buf.String())
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Errorf("RequestIDFromContext() = %q, want req-42", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	componentLogger := WithComponent("providers")
	componentLogger.Info().Msg("registered")

	if !strings.Contains(buf.String(), `"component":"providers"`) {
		t.Errorf("output missing component field: %s", buf.String())
	}
}
