// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"math"
	"strings"
)

// categoryMismatches are device/accessory category pairs that must not
// match even when their tokens overlap ("phone" vs "phone case").
var categoryMismatches = [][2]string{
	{"phone", "case"},
	{"phone", "charger"},
	{"phone", "cable"},
	{"phone", "accessor"},
	{"laptop", "bag"},
	{"laptop", "charger"},
	{"tablet", "case"},
	{"tablet", "stylus"},
	{"headphones", "case"},
}

// Match filters raw candidates down to plausible alternatives for the
// searched product. Candidates are deduplicated, checked for category,
// title, price, and attribute compatibility, and capped at
// cfg.MaxCandidates. Relative input order is preserved and the input
// slice is never modified.
func Match(input SearchInput, raw []RawCandidate, cfg MatcherConfig) []RawCandidate {
	if len(raw) == 0 {
		return []RawCandidate{}
	}

	src := input.Source
	queryKw := keywords(input.Query)
	queryNorm := normalizeTitle(input.Query)

	var srcKw []string
	var srcNorm, srcCat string
	var srcAttrs productAttributes
	if src != nil {
		srcKw = keywords(src.Name)
		srcNorm = normalizeTitle(src.Name)
		srcCat = normalizeCategory(src.Category)
		srcAttrs = extractAttributes(src.Name)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]RawCandidate, 0, cfg.MaxCandidates)

	for _, c := range raw {
		if len(out) >= cfg.MaxCandidates {
			break
		}
		if c.ID == "" || c.Title == "" {
			continue
		}
		if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) || c.Price <= 0 {
			continue
		}

		key := strings.ToLower(c.Platform) + "\x00" + c.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if src != nil && sameListing(src, &c) {
			continue
		}
		if !passesConstraints(input.Constraints, &c) {
			continue
		}
		if !categoryCompatible(srcCat, normalizeCategory(c.Category)) {
			continue
		}
		if !titleCompatible(queryNorm, queryKw, srcNorm, srcKw, &c, cfg) {
			continue
		}
		if src != nil && src.Price != nil && !withinPriceBand(*src.Price, c.Price, cfg.PriceBandPct) {
			continue
		}
		if src != nil && src.Name != "" && !attributesCompatible(srcAttrs, extractAttributes(c.Title), cfg) {
			continue
		}

		out = append(out, c)
	}
	return out
}

// sameListing reports whether a candidate comes from the same platform
// and store as the source product. Such listings are the searched item
// itself, not an alternative.
func sameListing(src *SourceProduct, c *RawCandidate) bool {
	if src.Platform == "" || !strings.EqualFold(src.Platform, c.Platform) {
		return false
	}
	if src.Store == "" || c.Store == "" {
		return true
	}
	return strings.EqualFold(src.Store, c.Store)
}

func passesConstraints(cs *Constraints, c *RawCandidate) bool {
	if cs == nil {
		return true
	}
	if cs.MinPrice != nil && c.Price < *cs.MinPrice {
		return false
	}
	if cs.MaxPrice != nil && c.Price > *cs.MaxPrice {
		return false
	}
	if cs.MinRating != nil && c.Rating != nil && *c.Rating < *cs.MinRating {
		return false
	}
	if len(cs.Categories) > 0 {
		cat := normalizeCategory(c.Category)
		ok := false
		for _, allowed := range cs.Categories {
			if categoryTokensOverlap(normalizeCategory(allowed), cat) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// categoryCompatible accepts when either side lacks a category, when the
// normalized categories contain each other or share a token of three or
// more characters, and rejects known device/accessory mismatches even
// when tokens overlap.
func categoryCompatible(srcCat, candCat string) bool {
	if srcCat == "" || candCat == "" {
		return true
	}
	for _, pair := range categoryMismatches {
		if strings.Contains(srcCat, pair[0]) && strings.Contains(candCat, pair[1]) {
			return false
		}
		if strings.Contains(srcCat, pair[1]) && strings.Contains(candCat, pair[0]) {
			return false
		}
	}
	if strings.Contains(srcCat, candCat) || strings.Contains(candCat, srcCat) {
		return true
	}
	return categoryTokensOverlap(srcCat, candCat)
}

// titleCompatible accepts a candidate whose normalized title contains or
// is contained by the query or source name, or that shares enough
// keywords with either. The keyword bar is higher against an extracted
// source name than against free-form query text.
func titleCompatible(queryNorm string, queryKw []string, srcNorm string, srcKw []string, c *RawCandidate, cfg MatcherConfig) bool {
	title := normalizeTitle(c.Title)
	if title == "" {
		return false
	}
	titleKw := keywords(c.Title)

	if srcNorm != "" {
		if strings.Contains(title, srcNorm) || strings.Contains(srcNorm, title) {
			return true
		}
		if sharedKeywords(srcKw, titleKw) >= 2 {
			return true
		}
	}
	if queryNorm != "" {
		if strings.Contains(title, queryNorm) || strings.Contains(queryNorm, title) {
			return true
		}
		if sharedKeywords(queryKw, titleKw) >= cfg.MinKeywordOverlap {
			return true
		}
	}
	return false
}

func withinPriceBand(source, price, bandPct float64) bool {
	if source <= 0 {
		return true
	}
	return price >= source*(1-bandPct) && price <= source*(1+bandPct)
}

// attributesCompatible rejects candidates whose mined attributes
// contradict the source product: storage capacities too far apart,
// screen sizes too far apart, or opposing keyword markers.
func attributesCompatible(src, cand productAttributes, cfg MatcherConfig) bool {
	if src.StorageGB > 0 && cand.StorageGB > 0 {
		if abs(src.StorageGB-cand.StorageGB) > cfg.MaxStorageDeltaGB {
			return false
		}
	}
	if src.ScreenInches > 0 && cand.ScreenInches > 0 {
		if math.Abs(src.ScreenInches-cand.ScreenInches) > cfg.MaxScreenDeltaInches {
			return false
		}
	}
	if src.Flags["wireless"] && cand.Flags["wired"] {
		return false
	}
	if src.Flags["wired"] && cand.Flags["wireless"] {
		return false
	}
	// A device search must not match bare accessories, and vice versa.
	for _, f := range accessoryFlags {
		if src.Flags[f] != cand.Flags[f] {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
