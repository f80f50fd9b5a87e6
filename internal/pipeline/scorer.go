// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"math"
	"sort"
)

const (
	baseConfidence         = 0.8
	missingRatingPenalty   = 0.15
	missingReviewsPenalty  = 0.20
	missingShippingPenalty = 0.10
	priceBoundaryPenalty   = 0.10
	priceBoundaryFraction  = 0.10
	shortTitleChars        = 15
	qualityPenaltyStep     = 0.25
	maxQualityPenalty      = 0.5
	priceZScoreLimit       = 3.0
)

// Score computes a composite desirability score and a data completeness
// confidence for each candidate, drops low-confidence candidates, and
// returns the top cfg.MaxResults ordered by score descending with price
// then id as tie-breaks.
//
// If the highest-scoring candidate falls below cfg.MinConfidence the
// whole result is empty: a low-confidence top pick is worse than no
// pick.
func Score(input SearchInput, candidates []RawCandidate, cfg ScorerConfig) []ScoredCandidate {
	if len(candidates) == 0 {
		return []ScoredCandidate{}
	}

	pop := ComputePopulation(candidates)

	var targetPrice float64
	if input.Source != nil && input.Source.Price != nil && *input.Source.Price > 0 {
		targetPrice = *input.Source.Price
	}

	scored := make([]ScoredCandidate, len(candidates))
	for idx := range candidates {
		scored[idx] = scoreOne(candidates[idx], targetPrice, pop, cfg)
	}

	sortScored(scored)

	// The best pick is judged before confidence filtering so a thin
	// top candidate suppresses the whole result rather than silently
	// promoting the runner-up.
	if scored[0].Confidence < cfg.MinConfidence {
		return []ScoredCandidate{}
	}

	kept := scored[:0:len(scored)]
	for _, s := range scored {
		if s.Confidence >= cfg.MinConfidence {
			kept = append(kept, s)
		}
	}
	if len(kept) > cfg.MaxResults {
		kept = kept[:cfg.MaxResults]
	}
	return kept
}

func scoreOne(c RawCandidate, targetPrice float64, pop Population, cfg ScorerConfig) ScoredCandidate {
	w := cfg.Weights

	priceNorm := priceFactor(c.Price, targetPrice, pop)
	ratingNorm := ratingFactor(c, pop, cfg)
	reviewsNorm := reviewsFactor(c, pop, cfg)
	shippingNorm := shippingFactor(c, pop)

	breakdown := ScoreBreakdown{
		Price:    FactorScore{Raw: c.Price, Normalized: priceNorm, Weight: w.Price, Contribution: priceNorm * w.Price},
		Rating:   FactorScore{Raw: deref(c.Rating), Normalized: ratingNorm, Weight: w.Rating, Contribution: ratingNorm * w.Rating},
		Reviews:  FactorScore{Raw: float64(derefInt(c.ReviewCount)), Normalized: reviewsNorm, Weight: w.Reviews, Contribution: reviewsNorm * w.Reviews},
		Shipping: FactorScore{Raw: deref(c.ShippingPrice), Normalized: shippingNorm, Weight: w.Shipping, Contribution: shippingNorm * w.Shipping},
	}

	score := breakdown.Price.Contribution + breakdown.Rating.Contribution +
		breakdown.Reviews.Contribution + breakdown.Shipping.Contribution

	if cfg.QualityPenalty {
		penalty := qualityPenalty(c, pop)
		breakdown.QualityPenalty = penalty
		score -= penalty
	}

	return ScoredCandidate{
		RawCandidate: c,
		Score:        clamp01(score),
		Confidence:   confidence(c, pop),
		Breakdown:    breakdown,
	}
}

// priceFactor rewards prices below the target when one is known, and
// otherwise position within the population's price range.
func priceFactor(price, targetPrice float64, pop Population) float64 {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	if targetPrice > 0 {
		return clamp01(math.Max(0, (targetPrice-price)/targetPrice))
	}
	span := pop.MaxPrice - pop.MinPrice
	if span <= 0 {
		return 0.5
	}
	return clamp01((pop.MaxPrice - price) / span)
}

// ratingFactor applies Bayesian smoothing so a 5.0 rating backed by two
// reviews does not outrank a 4.6 backed by two thousand.
func ratingFactor(c RawCandidate, pop Population, cfg ScorerConfig) float64 {
	prior := cfg.DefaultMeanRating
	if pop.HasRatings {
		prior = pop.MeanRating
	}
	if c.Rating == nil || *c.Rating <= 0 {
		return clamp01(prior / 5)
	}
	v := float64(derefInt(c.ReviewCount))
	m := cfg.BayesPriorStrength
	smoothed := (v**c.Rating + m*prior) / (v + m)
	return clamp01(smoothed / 5)
}

func reviewsFactor(c RawCandidate, pop Population, cfg ScorerConfig) float64 {
	v := derefInt(c.ReviewCount)
	if v <= 0 {
		return 0
	}
	if v < cfg.MinReviewThreshold {
		return cfg.ReviewFloorScore
	}
	if pop.MaxReviews <= 0 {
		return 0
	}
	return clamp01(math.Log10(float64(v)+1) / math.Log10(float64(pop.MaxReviews)+1))
}

// shippingFactor blends a cost component and a speed component with
// equal weight. Unknown values contribute a neutral 0.5.
func shippingFactor(c RawCandidate, pop Population) float64 {
	priceComp := 0.5
	if c.ShippingPrice != nil {
		switch {
		case *c.ShippingPrice <= 0:
			priceComp = 1.0
		case pop.MaxShippingPrice > 0:
			priceComp = clamp01(1 - *c.ShippingPrice/pop.MaxShippingPrice)
		}
	}

	timeComp := 0.5
	if c.ShippingDays != nil && *c.ShippingDays > 0 {
		switch d := *c.ShippingDays; {
		case d <= 2:
			timeComp = 1.0
		case d <= 5:
			timeComp = 0.7
		case d <= 10:
			timeComp = 0.4
		default:
			timeComp = 0.1
		}
	}
	return (priceComp + timeComp) / 2
}

// qualityPenalty subtracts for listings that smell wrong: stub titles
// and prices statistically far from the population.
func qualityPenalty(c RawCandidate, pop Population) float64 {
	penalty := 0.0
	if len(c.Title) < shortTitleChars {
		penalty += qualityPenaltyStep
	}
	if pop.StddevPrice > 0 {
		z := (c.Price - pop.MeanPrice) / pop.StddevPrice
		if math.Abs(z) > priceZScoreLimit {
			penalty += qualityPenaltyStep
		}
	}
	return math.Min(penalty, maxQualityPenalty)
}

// confidence measures data completeness, independent of desirability.
func confidence(c RawCandidate, pop Population) float64 {
	conf := baseConfidence
	if c.Rating == nil {
		conf -= missingRatingPenalty
	}
	if c.ReviewCount == nil {
		conf -= missingReviewsPenalty
	}
	if c.ShippingPrice == nil && c.ShippingDays == nil {
		conf -= missingShippingPenalty
	}
	// Prices hugging either end of the observed range carry boundary
	// uncertainty.
	if span := pop.MaxPrice - pop.MinPrice; span > 0 {
		edge := span * priceBoundaryFraction
		if c.Price <= pop.MinPrice+edge || c.Price >= pop.MaxPrice-edge {
			conf -= priceBoundaryPenalty
		}
	}
	return clamp01(conf)
}

// sortScored orders by score descending, then price ascending, then id
// ascending. The final id tie-break makes ordering total, so equal
// inputs in any order produce identical output.
func sortScored(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		if scored[a].Price != scored[b].Price {
			return scored[a].Price < scored[b].Price
		}
		return scored[a].ID < scored[b].ID
	})
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
