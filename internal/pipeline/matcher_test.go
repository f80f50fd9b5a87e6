// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"fmt"
	"math"
	"testing"
)

func keywordInput(query string) SearchInput {
	return SearchInput{Query: query, Type: SearchTypeKeyword}
}

func candidate(id, platform, title string, price float64) RawCandidate {
	return RawCandidate{ID: id, Platform: platform, Title: title, Price: price}
}

func TestMatch_RejectsInvalidCandidates(t *testing.T) {
	cfg := DefaultConfig().Matcher
	input := keywordInput("wireless headphones")

	tests := []struct {
		name string
		c    RawCandidate
	}{
		{"missing id", candidate("", "amazon", "wireless headphones", 49.99)},
		{"missing title", candidate("a1", "amazon", "", 49.99)},
		{"zero price", candidate("a1", "amazon", "wireless headphones", 0)},
		{"negative price", candidate("a1", "amazon", "wireless headphones", -5)},
		{"NaN price", candidate("a1", "amazon", "wireless headphones", math.NaN())},
		{"infinite price", candidate("a1", "amazon", "wireless headphones", math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(input, []RawCandidate{tt.c}, cfg)
			if len(got) != 0 {
				t.Errorf("Match() kept invalid candidate, got %d results", len(got))
			}
		})
	}
}

func TestMatch_DeduplicatesByPlatformAndID(t *testing.T) {
	cfg := DefaultConfig().Matcher
	input := keywordInput("wireless headphones")

	first := candidate("a1", "amazon", "wireless headphones black", 49.99)
	dup := candidate("a1", "Amazon", "wireless headphones special", 39.99)
	other := candidate("a1", "ebay", "wireless headphones black", 44.99)

	got := Match(input, []RawCandidate{first, dup, other}, cfg)
	if len(got) != 2 {
		t.Fatalf("Match() = %d candidates, want 2", len(got))
	}
	if got[0].Price != 49.99 {
		t.Errorf("first occurrence should win, got price %v", got[0].Price)
	}
	if got[1].Platform != "ebay" {
		t.Errorf("same id on a different platform should survive, got %q", got[1].Platform)
	}
}

func TestMatch_ExcludesSourceListing(t *testing.T) {
	cfg := DefaultConfig().Matcher
	price := 50.0
	input := SearchInput{
		Query: "wireless headphones",
		Type:  SearchTypeURL,
		Source: &SourceProduct{
			Name:     "wireless headphones",
			Price:    &price,
			Platform: "amazon",
			Store:    "acme audio",
		},
	}

	same := candidate("a1", "amazon", "wireless headphones", 49.99)
	same.Store = "Acme Audio"
	differentStore := candidate("a2", "amazon", "wireless headphones", 48.99)
	differentStore.Store = "other shop"
	otherPlatform := candidate("e1", "ebay", "wireless headphones", 47.99)

	got := Match(input, []RawCandidate{same, differentStore, otherPlatform}, cfg)
	ids := make(map[string]bool, len(got))
	for _, c := range got {
		ids[c.ID] = true
	}
	if ids["a1"] {
		t.Error("candidate from the source platform and store should be excluded")
	}
	if !ids["a2"] {
		t.Error("same platform but different store should be kept")
	}
	if !ids["e1"] {
		t.Error("other platform should be kept")
	}
}

func TestMatch_CategoryCompatibility(t *testing.T) {
	cfg := DefaultConfig().Matcher
	price := 20.0

	tests := []struct {
		name     string
		srcCat   string
		candCat  string
		wantKept bool
	}{
		{"both empty", "", "", true},
		{"candidate empty", "electronics", "", true},
		{"identical", "electronics", "electronics", true},
		{"case and punctuation", "Electronics & Gadgets", "electronics gadgets", true},
		{"substring", "electronics", "consumer electronics", true},
		{"shared token", "home appliances deluxe", "premium appliances", true},
		{"unrelated", "electronics", "clothing", false},
		{"phone vs phone case", "phone", "phone case", false},
		{"laptop vs laptop bag", "laptop", "laptop bag", false},
		{"tablet vs tablet stylus", "tablet", "tablet stylus", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := SearchInput{
				Query: "gizmo 3000",
				Type:  SearchTypeURL,
				Source: &SourceProduct{
					Name:     "gizmo 3000",
					Price:    &price,
					Category: tt.srcCat,
				},
			}
			c := candidate("c1", "ebay", "gizmo 3000", 19.99)
			c.Category = tt.candCat

			got := Match(input, []RawCandidate{c}, cfg)
			if kept := len(got) == 1; kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestMatch_TitleSimilarity(t *testing.T) {
	cfg := DefaultConfig().Matcher

	tests := []struct {
		name     string
		query    string
		title    string
		wantKept bool
	}{
		{"containment", "airpods pro", "Apple AirPods Pro 2nd Generation", true},
		{"shared keyword vs query", "bluetooth speaker portable", "portable speaker stand", true},
		{"no overlap", "bluetooth speaker", "garden hose 50ft", false},
		{"short words ignored", "tv hd", "an in on at up", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(keywordInput(tt.query), []RawCandidate{
				candidate("c1", "ebay", tt.title, 29.99),
			}, cfg)
			if kept := len(got) == 1; kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestMatch_TitleSimilarityAgainstSourceName(t *testing.T) {
	cfg := DefaultConfig().Matcher
	price := 100.0
	input := SearchInput{
		Query: "https://example.com/p/12345",
		Type:  SearchTypeURL,
		Source: &SourceProduct{
			Name:  "acme thunder keyboard mechanical",
			Price: &price,
		},
	}

	// Two shared keywords with the source name is enough.
	twoShared := candidate("c1", "ebay", "thunder keyboard wrist rest", 99.0)
	// One shared keyword with the source name is not.
	oneShared := candidate("c2", "ebay", "keyboard cleaning kit", 95.0)

	got := Match(input, []RawCandidate{twoShared, oneShared}, cfg)
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("Match() = %v, want only c1", ids(got))
	}
}

func TestMatch_PriceBand(t *testing.T) {
	cfg := DefaultConfig().Matcher
	price := 100.0
	input := SearchInput{
		Query:  "gizmo 3000",
		Type:   SearchTypeURL,
		Source: &SourceProduct{Name: "gizmo 3000", Price: &price},
	}

	tests := []struct {
		name     string
		price    float64
		wantKept bool
	}{
		{"at lower bound", 60.0, true},
		{"at upper bound", 140.0, true},
		{"below band", 59.99, false},
		{"above band", 140.01, false},
		{"middle", 100.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(input, []RawCandidate{
				candidate("c1", "ebay", "gizmo 3000", tt.price),
			}, cfg)
			if kept := len(got) == 1; kept != tt.wantKept {
				t.Errorf("price %v kept = %v, want %v", tt.price, kept, tt.wantKept)
			}
		})
	}
}

func TestMatch_AttributeCompatibility(t *testing.T) {
	cfg := DefaultConfig().Matcher
	price := 500.0

	tests := []struct {
		name     string
		srcName  string
		title    string
		wantKept bool
	}{
		{"storage within tolerance", "gizmo phone 128 GB", "gizmo phone 128GB unlocked", true},
		{"storage too far apart", "gizmo phone 128 GB", "gizmo phone 256 GB unlocked", false},
		{"screen within tolerance", "gizmo tablet 10.1 inch", "gizmo tablet 10.2 inch wifi", true},
		{"screen too far apart", "gizmo tablet 10.1 inch", "gizmo tablet 12.9 inch wifi", false},
		{"wireless vs wired", "gizmo wireless earbuds", "gizmo wired earbuds", false},
		{"device vs case accessory", "gizmo phone", "gizmo phone case", false},
		{"case vs matching case", "gizmo phone case", "gizmo phone case leather", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := SearchInput{
				Query:  tt.srcName,
				Type:   SearchTypeURL,
				Source: &SourceProduct{Name: tt.srcName, Price: &price},
			}
			got := Match(input, []RawCandidate{
				candidate("c1", "ebay", tt.title, 490.0),
			}, cfg)
			if kept := len(got) == 1; kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestMatch_Constraints(t *testing.T) {
	cfg := DefaultConfig().Matcher
	minPrice, maxPrice, minRating := 20.0, 60.0, 4.0

	input := SearchInput{
		Query: "wireless headphones",
		Type:  SearchTypeKeyword,
		Constraints: &Constraints{
			MinPrice:  &minPrice,
			MaxPrice:  &maxPrice,
			MinRating: &minRating,
		},
	}

	cheap := candidate("c1", "ebay", "wireless headphones", 10.0)
	pricey := candidate("c2", "ebay", "wireless headphones", 75.0)
	lowRated := candidate("c3", "ebay", "wireless headphones", 30.0)
	lowRated.Rating = f64(3.0)
	unrated := candidate("c4", "ebay", "wireless headphones", 30.0)
	ok := candidate("c5", "ebay", "wireless headphones", 40.0)
	ok.Rating = f64(4.5)

	got := Match(input, []RawCandidate{cheap, pricey, lowRated, unrated, ok}, cfg)
	want := []string{"c4", "c5"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Errorf("Match() = %v, want %v (unknown rating passes the rating constraint)", ids(got), want)
	}
}

func TestMatch_CapAndOrder(t *testing.T) {
	cfg := DefaultConfig().Matcher
	input := keywordInput("wireless headphones")

	raw := make([]RawCandidate, 0, 40)
	for n := 0; n < 40; n++ {
		raw = append(raw, candidate(fmt.Sprintf("c%02d", n), "ebay", "wireless headphones", 20.0+float64(n)))
	}

	got := Match(input, raw, cfg)
	if len(got) != cfg.MaxCandidates {
		t.Fatalf("Match() = %d candidates, want cap %d", len(got), cfg.MaxCandidates)
	}
	for n, c := range got {
		want := fmt.Sprintf("c%02d", n)
		if c.ID != want {
			t.Fatalf("position %d = %q, want %q (input order must be preserved)", n, c.ID, want)
		}
	}
}

func TestMatch_EmptyInput(t *testing.T) {
	got := Match(keywordInput("anything"), nil, DefaultConfig().Matcher)
	if got == nil || len(got) != 0 {
		t.Errorf("Match() = %v, want empty non-nil slice", got)
	}
}

func ids(cs []RawCandidate) []string {
	out := make([]string, len(cs))
	for n, c := range cs {
		out[n] = c.ID
	}
	return out
}
