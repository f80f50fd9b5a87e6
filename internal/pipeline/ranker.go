// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import "math"

// Rank assigns badges in fixed priority order: best_choice, best_value,
// fastest, cheapest. Each badge goes to at most one candidate and a
// candidate claimed by a higher-priority badge is excluded from later
// ones. The input slice is not modified.
func Rank(scored []ScoredCandidate, cfg RankerConfig) []RankedCandidate {
	ranked := make([]RankedCandidate, len(scored))
	for idx := range scored {
		ranked[idx] = RankedCandidate{ScoredCandidate: scored[idx], Badge: BadgeNone}
	}
	if len(ranked) == 0 {
		return ranked
	}

	claimed := make(map[string]struct{}, 4)

	assignBestChoice(ranked, claimed, cfg)
	assignBestValue(ranked, claimed)
	assignFastest(ranked, claimed)
	assignCheapest(ranked, claimed, cfg)

	return ranked
}

func claimKey(c *RankedCandidate) string {
	return c.Platform + "\x00" + c.ID
}

// assignBestChoice picks the highest score among candidates with both a
// strong rating and substantial review backing.
func assignBestChoice(ranked []RankedCandidate, claimed map[string]struct{}, cfg RankerConfig) {
	winner := -1
	for idx := range ranked {
		c := &ranked[idx]
		if c.Rating == nil || *c.Rating <= cfg.BestChoiceMinRating {
			continue
		}
		if derefInt(c.ReviewCount) <= cfg.BestChoiceMinReviews {
			continue
		}
		if winner < 0 || c.Score > ranked[winner].Score {
			winner = idx
		}
	}
	award(ranked, claimed, winner, BadgeBestChoice)
}

// assignBestValue maximizes rating-weighted review volume per currency
// unit: (rating * ln(max(1, reviews))) / price.
func assignBestValue(ranked []RankedCandidate, claimed map[string]struct{}) {
	winner := -1
	best := 0.0
	for idx := range ranked {
		c := &ranked[idx]
		if _, taken := claimed[claimKey(c)]; taken {
			continue
		}
		if c.Rating == nil || *c.Rating <= 0 || c.Price <= 0 {
			continue
		}
		value := (*c.Rating * math.Log(math.Max(1, float64(derefInt(c.ReviewCount))))) / c.Price
		if value > best {
			best = value
			winner = idx
		}
	}
	award(ranked, claimed, winner, BadgeBestValue)
}

// assignFastest picks the minimum shipping time, ties broken by score.
func assignFastest(ranked []RankedCandidate, claimed map[string]struct{}) {
	winner := -1
	for idx := range ranked {
		c := &ranked[idx]
		if _, taken := claimed[claimKey(c)]; taken {
			continue
		}
		if c.ShippingDays == nil || *c.ShippingDays <= 0 {
			continue
		}
		if winner < 0 {
			winner = idx
			continue
		}
		w := &ranked[winner]
		if *c.ShippingDays < *w.ShippingDays ||
			(*c.ShippingDays == *w.ShippingDays && c.Score > w.Score) {
			winner = idx
		}
	}
	award(ranked, claimed, winner, BadgeFastest)
}

// assignCheapest picks the lowest price among candidates whose rating
// clears the floor, so the badge never endorses junk.
func assignCheapest(ranked []RankedCandidate, claimed map[string]struct{}, cfg RankerConfig) {
	winner := -1
	for idx := range ranked {
		c := &ranked[idx]
		if _, taken := claimed[claimKey(c)]; taken {
			continue
		}
		if c.Rating == nil || *c.Rating < cfg.CheapestMinRating {
			continue
		}
		if c.Price <= 0 {
			continue
		}
		if winner < 0 || c.Price < ranked[winner].Price {
			winner = idx
		}
	}
	award(ranked, claimed, winner, BadgeCheapest)
}

func award(ranked []RankedCandidate, claimed map[string]struct{}, winner int, badge Badge) {
	if winner < 0 {
		return
	}
	ranked[winner].Badge = badge
	claimed[claimKey(&ranked[winner])] = struct{}{}
}
