// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package trust

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/tomtom215/dealscout/internal/pipeline"
)

// trustPopulation holds per-request statistics over the guarded set,
// built once and shared by every per-candidate computation.
type trustPopulation struct {
	ratings []float64
	reviews []float64

	minPrice         float64
	meanPrice        float64
	meanRating       float64
	hasRatings       bool
	meanReviews      float64
	meanShippingDays float64
	minShippingDays  int
	hasShippingDays  bool

	// bestValueKey identifies the winner of the 40/40/20 weighted
	// price/rating/review percentile blend.
	bestValueKey string
}

func buildTrustPopulation(candidates []pipeline.GuardedCandidate) trustPopulation {
	var pop trustPopulation

	prices := make(stats.Float64Data, 0, len(candidates))
	ratings := make(stats.Float64Data, 0, len(candidates))
	reviews := make(stats.Float64Data, 0, len(candidates))
	shipping := make(stats.Float64Data, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		if c.Price > 0 {
			prices = append(prices, c.Price)
			if pop.minPrice == 0 || c.Price < pop.minPrice {
				pop.minPrice = c.Price
			}
		}
		if c.Rating != nil && *c.Rating > 0 {
			ratings = append(ratings, *c.Rating)
		}
		if c.ReviewCount != nil && *c.ReviewCount > 0 {
			reviews = append(reviews, float64(*c.ReviewCount))
		}
		if c.ShippingDays != nil && *c.ShippingDays > 0 {
			shipping = append(shipping, float64(*c.ShippingDays))
			if !pop.hasShippingDays || *c.ShippingDays < pop.minShippingDays {
				pop.minShippingDays = *c.ShippingDays
				pop.hasShippingDays = true
			}
		}
	}

	if len(prices) > 0 {
		pop.meanPrice, _ = prices.Mean()
	}
	if len(ratings) > 0 {
		pop.meanRating, _ = ratings.Mean()
		pop.hasRatings = true
	}
	if len(reviews) > 0 {
		pop.meanReviews, _ = reviews.Mean()
	}
	if len(shipping) > 0 {
		pop.meanShippingDays, _ = shipping.Mean()
	}

	pop.ratings = sortedCopy(ratings)
	pop.reviews = sortedCopy(reviews)
	pop.bestValueKey = bestValueWinner(candidates, sortedCopy(prices), pop.ratings, pop.reviews)
	return pop
}

// ratingRank returns the fraction of rated candidates at or below v.
func (p *trustPopulation) ratingRank(v float64) float64 {
	return percentileRank(p.ratings, v)
}

// reviewRank returns the fraction of reviewed candidates at or below n.
func (p *trustPopulation) reviewRank(n int) float64 {
	return percentileRank(p.reviews, float64(n))
}

// percentileRank is the fraction of sorted values <= v.
func percentileRank(sorted []float64, v float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	at := sort.SearchFloat64s(sorted, v)
	for at < len(sorted) && sorted[at] == v {
		at++
	}
	return float64(at) / float64(len(sorted))
}

// invertedRank is the fraction of sorted values >= v; used for price,
// where lower is better.
func invertedRank(sorted []float64, v float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	at := sort.SearchFloat64s(sorted, v)
	return float64(len(sorted)-at) / float64(len(sorted))
}

// bestValueWinner blends price, rating, and review percentile ranks at
// 40/40/20 and returns the key of the highest scorer. Candidates
// without a price or rating are not eligible.
func bestValueWinner(candidates []pipeline.GuardedCandidate, prices, ratings, reviews []float64) string {
	winner := ""
	best := 0.0
	for i := range candidates {
		c := &candidates[i]
		if c.Price <= 0 || c.Rating == nil || *c.Rating <= 0 {
			continue
		}
		blend := 0.4*invertedRank(prices, c.Price) + 0.4*percentileRank(ratings, *c.Rating)
		if c.ReviewCount != nil && *c.ReviewCount > 0 {
			blend += 0.2 * percentileRank(reviews, float64(*c.ReviewCount))
		}
		if blend > best {
			best = blend
			winner = candidateKey(c)
		}
	}
	return winner
}

func sortedCopy(data []float64) []float64 {
	out := append([]float64(nil), data...)
	sort.Float64s(out)
	return out
}
