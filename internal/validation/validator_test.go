// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package validation

import (
	"strings"
	"testing"
)

type searchRequest struct {
	Query string `validate:"required,min=2,max=10"`
	Type  string `validate:"omitempty,oneof=url keyword"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		if err := ValidateStruct(&searchRequest{Query: "laptop", Type: "keyword"}); err != nil {
			t.Errorf("ValidateStruct() = %v, want nil", err)
		}
	})

	t.Run("required field", func(t *testing.T) {
		err := ValidateStruct(&searchRequest{})
		if err == nil {
			t.Fatal("expected validation error")
		}
		errs := err.Errors()
		if len(errs) != 1 || errs[0].Field() != "Query" || errs[0].Tag() != "required" {
			t.Errorf("Errors() = %+v", errs)
		}
		if got := errs[0].Error(); got != "Query is required" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("min length translated", func(t *testing.T) {
		err := ValidateStruct(&searchRequest{Query: "x"})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if got := err.Error(); got != "Query must be at least 2 characters" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("oneof translated with param", func(t *testing.T) {
		err := ValidateStruct(&searchRequest{Query: "laptop", Type: "rss"})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if got := err.Error(); !strings.Contains(got, "must be one of") {
			t.Errorf("Error() = %q", got)
		}
	})
}

func TestToAPIError(t *testing.T) {
	t.Run("single error carries field details", func(t *testing.T) {
		verr := ValidateStruct(&searchRequest{})
		apiErr := verr.ToAPIError()

		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "Query" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple errors joined", func(t *testing.T) {
		verr := ValidateStruct(&searchRequest{Query: "x", Type: "rss"})
		if verr == nil {
			t.Fatal("expected validation error")
		}
		apiErr := verr.ToAPIError()

		if len(verr.Errors()) != 2 {
			t.Fatalf("got %d errors, want 2", len(verr.Errors()))
		}
		if !strings.Contains(apiErr.Message, ";") {
			t.Errorf("Message = %q, want joined messages", apiErr.Message)
		}
		if _, ok := apiErr.Details["fields"]; !ok {
			t.Errorf("Details = %v, want fields list", apiErr.Details)
		}
	})
}
