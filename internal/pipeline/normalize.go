// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	punctPattern    = regexp.MustCompile(`[^\pL\pN\s]+`)
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9\s]+`)
	storagePattern  = regexp.MustCompile(`(\d+)\s*(?:gb|GB|Gb)\b`)
	screenPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:inch(?:es)?|in\b|″|")`)
)

// normalizeCategory lowercases and strips punctuation from a category
// label so variants like "Cell-Phones & Accessories" compare cleanly.
func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeTitle lowercases a title and strips non-alphanumerics for
// containment comparisons.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// keywords extracts comparison keywords from text: lowercase,
// non-alphanumerics stripped, words of two characters or fewer dropped.
func keywords(s string) []string {
	out := make([]string, 0, 8)
	for _, w := range strings.Fields(normalizeTitle(s)) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// sharedKeywords counts keywords present in both slices.
func sharedKeywords(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range b {
		if _, ok := set[w]; ok {
			n++
			delete(set, w)
		}
	}
	return n
}

// categoryTokensOverlap reports whether two normalized categories share
// a token of at least three characters.
func categoryTokensOverlap(a, b string) bool {
	bt := strings.Fields(b)
	for _, ta := range strings.Fields(a) {
		if len(ta) < 3 {
			continue
		}
		for _, tb := range bt {
			if ta == tb {
				return true
			}
		}
	}
	return false
}

// productAttributes holds structured attributes mined from a title.
type productAttributes struct {
	// StorageGB is the declared capacity in GB, 0 when absent.
	StorageGB int

	// ScreenInches is the declared screen size, 0 when absent.
	ScreenInches float64

	// Flags are boolean keyword markers found in the title.
	Flags map[string]bool
}

// attributeKeywords are the title markers mined into Flags.
var attributeKeywords = []string{
	"wireless", "wired", "fast-charge", "case", "cable", "charger",
	"headphones", "laptop", "phone", "tablet",
}

// accessoryFlags mark listings that are add-ons rather than devices.
var accessoryFlags = []string{"case", "cable", "charger"}

// extractAttributes mines storage, screen size, and keyword flags from
// a raw title.
func extractAttributes(title string) productAttributes {
	attrs := productAttributes{Flags: make(map[string]bool, 4)}
	lower := strings.ToLower(title)

	if m := storagePattern.FindStringSubmatch(title); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			attrs.StorageGB = v
		}
	}
	if m := screenPattern.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			attrs.ScreenInches = v
		}
	}
	for _, kw := range attributeKeywords {
		if kw == "fast-charge" {
			if strings.Contains(lower, "fast-charge") || strings.Contains(lower, "fast charge") {
				attrs.Flags[kw] = true
			}
			continue
		}
		if containsWord(lower, kw) {
			attrs.Flags[kw] = true
		}
	}
	return attrs
}

// containsWord reports whether s contains w as a whole word.
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isAlnum(s[i-1])
		afterIdx := i + len(w)
		after := afterIdx >= len(s) || !isAlnum(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(w)
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
