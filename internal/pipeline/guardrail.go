// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Guard runs every candidate through the quality, social-proof,
// price-outlier, and platform-reliability checks. Candidates are never
// removed: failing ones are flagged risky with human-readable reasons.
// A lone candidate is always recommended, but keeps its risk flags so
// the caller can still warn.
func Guard(ranked []RankedCandidate, cfg GuardrailConfig) []GuardedCandidate {
	guarded := make([]GuardedCandidate, len(ranked))
	if len(ranked) == 0 {
		return guarded
	}

	median, havePrices := populationMedian(ranked, cfg.MinPricedForMedian)
	lone := len(ranked) == 1

	for idx := range ranked {
		guarded[idx] = guardOne(ranked[idx], median, havePrices, lone, cfg)
	}
	return guarded
}

// populationMedian computes the median price over the full set. Below
// cfg.MinPricedForMedian priced candidates there is no usable signal
// and the outlier check is skipped entirely.
func populationMedian(ranked []RankedCandidate, minPriced int) (float64, bool) {
	prices := make(stats.Float64Data, 0, len(ranked))
	for i := range ranked {
		p := ranked[i].Price
		if p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0) {
			prices = append(prices, p)
		}
	}
	if len(prices) < minPriced {
		return 0, false
	}
	median, err := prices.Median()
	if err != nil {
		return 0, false
	}
	return median, true
}

func guardOne(c RankedCandidate, median float64, havePrices, lone bool, cfg GuardrailConfig) GuardedCandidate {
	eff := ResolveThresholds(c.Category, c.Platform, cfg)

	var tags, reasons []string
	pass := true

	// Quality floor.
	rating := deref(c.Rating)
	if rating >= eff.MinRating {
		tags = append(tags, "High Rating")
	} else {
		pass = false
		reasons = append(reasons, fmt.Sprintf("Rating %.1f is below the %.1f threshold", rating, eff.MinRating))
	}

	// Social proof.
	reviews := derefInt(c.ReviewCount)
	if reviews >= eff.MinReviewCount {
		tags = append(tags, "Trusted Seller")
	} else {
		pass = false
		reasons = append(reasons, fmt.Sprintf("Only %d reviews (minimum %d)", reviews, eff.MinReviewCount))
	}

	// Price outlier. A price far below the population median is a scam
	// or counterfeit signal, not a bargain.
	if havePrices && c.Price > 0 {
		switch {
		case c.Price < eff.PriceOutlierFactor*median:
			pass = false
			pct := (1 - eff.PriceOutlierFactor) * 100
			reasons = append(reasons, fmt.Sprintf("Price is %.0f%%+ below the median market price", pct))
		case c.Price <= eff.GoodDealFactor*median:
			tags = append(tags, "Good Deal")
		}
	}

	// Platform reliability.
	switch eff.Tier {
	case TierTrusted:
		tags = append(tags, "Trusted Seller")
	case TierNew:
		pass = false
		reasons = append(reasons, fmt.Sprintf("Platform %q has limited track record", c.Platform))
	case TierStandard:
	}

	tags = append(tags, positiveTags(&c)...)

	return GuardedCandidate{
		RankedCandidate: c,
		IsRecommended:   pass || lone,
		ReasoningTags:   dedupe(tags),
		IsRisky:         !pass,
		RiskReasons:     reasons,
	}
}

// positiveTags are informational signals computed regardless of
// pass/fail state.
func positiveTags(c *RankedCandidate) []string {
	var tags []string
	if c.ShippingDays != nil {
		switch d := *c.ShippingDays; {
		case d > 0 && d <= 2:
			tags = append(tags, "Express Shipping")
		case d > 0 && d <= 5:
			tags = append(tags, "Fast Shipping")
		}
	}
	if c.ShippingPrice != nil && *c.ShippingPrice == 0 {
		tags = append(tags, "Free Shipping")
	}
	if len(c.Description) > 50 {
		tags = append(tags, "Detailed Description")
	}
	if c.Brand != "" {
		tags = append(tags, "Brand: "+c.Brand)
	}
	switch c.Badge {
	case BadgeBestChoice:
		tags = append(tags, "Category Winner")
	case BadgeBestValue:
		tags = append(tags, "Best Value")
	case BadgeFastest:
		tags = append(tags, "Fastest Delivery")
	case BadgeCheapest:
		tags = append(tags, "Most Affordable")
	case BadgeNone:
	}
	return tags
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
