// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dealscout/internal/pipeline"
)

func keywordInput(query string) pipeline.SearchInput {
	return pipeline.SearchInput{Query: query, Type: pipeline.SearchTypeKeyword}
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

const testCatalog = `[
	{"id": "h1", "platform": "shopx", "title": "Wireless Headphones Pro", "price": 59.99},
	{"id": "h2", "platform": "shopx", "title": "Wired Headphones Basic", "price": 19.99},
	{"id": "k1", "platform": "shopx", "title": "Mechanical Keyboard", "price": 89.99}
]`

func TestFileProvider(t *testing.T) {
	p, err := NewFileProvider("fixtures", writeCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("NewFileProvider() error: %v", err)
	}
	if p.Name() != "fixtures" {
		t.Errorf("Name() = %q", p.Name())
	}

	t.Run("filters by query terms", func(t *testing.T) {
		got, err := p.Fetch(context.Background(), keywordInput("wireless headphones"))
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d candidates, want 2", len(got))
		}
		if got[0].ID != "h1" || got[1].ID != "h2" {
			t.Errorf("ids = %s,%s want h1,h2", got[0].ID, got[1].ID)
		}
	})

	t.Run("short words ignored", func(t *testing.T) {
		got, err := p.Fetch(context.Background(), keywordInput("a keyboard"))
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "k1" {
			t.Errorf("got %v, want only k1", got)
		}
	})

	t.Run("empty query returns whole catalog", func(t *testing.T) {
		got, err := p.Fetch(context.Background(), keywordInput(""))
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d candidates, want 3", len(got))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := p.Fetch(ctx, keywordInput("headphones")); err == nil {
			t.Error("expected context error")
		}
	})
}

func TestNewFileProvider_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := NewFileProvider("x", filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("expected error for missing catalog")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := NewFileProvider("x", writeCatalog(t, "{not json")); err == nil {
			t.Error("expected error for malformed catalog")
		}
	})
}

func TestHTTPProvider(t *testing.T) {
	t.Run("fetches and stamps platform", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "usb hub" {
				t.Errorf("q = %q, want %q", got, "usb hub")
			}
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("Authorization = %q", got)
			}
			w.Write([]byte(`{"candidates":[
				{"id": "u1", "title": "USB Hub", "price": 25},
				{"id": "u2", "platform": "other", "title": "USB Hub Deluxe", "price": 35}
			]}`))
		}))
		t.Cleanup(srv.Close)

		p, err := NewHTTPProvider(HTTPProviderConfig{Name: "shopapi", Endpoint: srv.URL, APIKey: "secret"})
		if err != nil {
			t.Fatalf("NewHTTPProvider() error: %v", err)
		}

		got, err := p.Fetch(context.Background(), keywordInput("usb hub"))
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d candidates, want 2", len(got))
		}
		if got[0].Platform != "shopapi" {
			t.Errorf("missing platform stamped as %q, want shopapi", got[0].Platform)
		}
		if got[1].Platform != "other" {
			t.Errorf("existing platform overwritten: %q", got[1].Platform)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		p, err := NewHTTPProvider(HTTPProviderConfig{Name: "flaky", Endpoint: srv.URL})
		if err != nil {
			t.Fatalf("NewHTTPProvider() error: %v", err)
		}
		if _, err := p.Fetch(context.Background(), keywordInput("anything")); err == nil {
			t.Error("expected error for upstream failure")
		}
	})

	t.Run("config validation", func(t *testing.T) {
		if _, err := NewHTTPProvider(HTTPProviderConfig{Endpoint: "http://x"}); err == nil {
			t.Error("expected error for missing name")
		}
		if _, err := NewHTTPProvider(HTTPProviderConfig{Name: "x"}); err == nil {
			t.Error("expected error for missing endpoint")
		}
	})
}

type stubProvider struct {
	name       string
	candidates []pipeline.RawCandidate
	err        error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(context.Context, pipeline.SearchInput) ([]pipeline.RawCandidate, error) {
	return s.candidates, s.err
}

func TestRegistry_FetchAll(t *testing.T) {
	a := &stubProvider{name: "a", candidates: []pipeline.RawCandidate{{ID: "a1"}, {ID: "a2"}}}
	b := &stubProvider{name: "b", err: errors.New("upstream down")}
	c := &stubProvider{name: "c", candidates: []pipeline.RawCandidate{{ID: "c1"}}}

	reg := NewRegistry(zerolog.Nop(), a, b, c)

	if names := reg.Providers(); len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("Providers() = %v", names)
	}

	got := reg.FetchAll(context.Background(), keywordInput("anything"))

	// Merged in registration order, with the failing provider
	// contributing nothing.
	want := []string{"a1", "a2", "c1"}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestRegistry_Empty(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	if got := reg.FetchAll(context.Background(), keywordInput("x")); len(got) != 0 {
		t.Errorf("FetchAll() = %d candidates, want 0", len(got))
	}
	if got := reg.Providers(); len(got) != 0 {
		t.Errorf("Providers() = %v, want empty", got)
	}
}
