// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"math"
	"sort"
	"strings"
)

// PlatformTier classifies a source platform's trust level.
type PlatformTier string

const (
	// TierTrusted platforms get relaxed guardrail floors.
	TierTrusted PlatformTier = "trusted"
	// TierStandard platforms use thresholds unchanged.
	TierStandard PlatformTier = "standard"
	// TierNew platforms get raised floors and a reliability flag.
	TierNew PlatformTier = "new"
)

// EffectiveThresholds are the fully-resolved guardrail limits for one
// candidate after layering global, category, and platform adjustments.
type EffectiveThresholds struct {
	MinRating          float64
	MinReviewCount     int
	PriceOutlierFactor float64
	GoodDealFactor     float64
	Tier               PlatformTier
}

// ResolveThresholds merges threshold layers in order: global defaults,
// then the category override for the candidate's normalized category,
// then the platform tier adjustment. The merge is side-effect-free.
func ResolveThresholds(category, platform string, cfg GuardrailConfig) EffectiveThresholds {
	eff := EffectiveThresholds{Tier: TierStandard}
	applyLayer(&eff, cfg.Global)

	if cat := normalizeCategory(category); cat != "" {
		if override, ok := lookupCategory(cfg.CategoryOverrides, cat); ok {
			applyLayer(&eff, override)
		}
	}

	eff.Tier = classifyPlatform(platform, cfg)
	switch eff.Tier {
	case TierTrusted:
		eff.MinRating = math.Max(eff.MinRating-cfg.TrustedRatingRelief, cfg.TrustedRatingFloor)
		eff.MinReviewCount = max(eff.MinReviewCount-cfg.TrustedReviewRelief, cfg.TrustedReviewFloor)
	case TierNew:
		eff.MinRating = math.Min(eff.MinRating+cfg.StricterRatingRaise, 5)
		eff.MinReviewCount = max(eff.MinReviewCount, cfg.StricterReviewMin)
	case TierStandard:
	}
	return eff
}

func applyLayer(eff *EffectiveThresholds, t Thresholds) {
	if t.MinRating != nil {
		eff.MinRating = *t.MinRating
	}
	if t.MinReviewCount != nil {
		eff.MinReviewCount = *t.MinReviewCount
	}
	if t.PriceOutlierFactor != nil {
		eff.PriceOutlierFactor = *t.PriceOutlierFactor
	}
	if t.GoodDealFactor != nil {
		eff.GoodDealFactor = *t.GoodDealFactor
	}
}

// lookupCategory matches a normalized candidate category against
// configured override keys by substring containment, so "mens
// clothing" picks up a "clothing" override. When several keys match,
// the longest normalized key wins, with sorted key order breaking
// length ties, so the resolved override never depends on map
// iteration order.
func lookupCategory(overrides map[string]Thresholds, cat string) (Thresholds, bool) {
	if t, ok := overrides[cat]; ok {
		return t, true
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var best Thresholds
	bestLen := -1
	for _, key := range keys {
		nk := normalizeCategory(key)
		if nk == "" {
			continue
		}
		if (strings.Contains(cat, nk) || strings.Contains(nk, cat)) && len(nk) > bestLen {
			best = overrides[key]
			bestLen = len(nk)
		}
	}
	return best, bestLen >= 0
}

// classifyPlatform assigns a trust tier by case-insensitive substring
// membership against the configured platform lists.
func classifyPlatform(platform string, cfg GuardrailConfig) PlatformTier {
	p := strings.ToLower(strings.TrimSpace(platform))
	if p == "" {
		return TierStandard
	}
	if platformListed(p, cfg.TrustedPlatforms) {
		return TierTrusted
	}
	if platformListed(p, cfg.StricterPlatforms) {
		return TierNew
	}
	return TierStandard
}

func platformListed(platform string, list []string) bool {
	for _, entry := range list {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}
		if strings.Contains(platform, e) || strings.Contains(e, platform) {
			return true
		}
	}
	return false
}
