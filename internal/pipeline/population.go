// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Population holds per-request statistics over the candidate set.
// Computed once and passed read-only into per-candidate computations so
// no candidate's score depends on evaluation order.
type Population struct {
	MinPrice    float64
	MaxPrice    float64
	MeanPrice   float64
	StddevPrice float64
	MedianPrice float64

	// PricedCount is the number of candidates with a usable price.
	PricedCount int

	// MeanRating is the mean across candidates that carry a rating.
	// HasRatings is false when none do.
	MeanRating float64
	HasRatings bool

	MaxReviews       int
	MaxShippingPrice float64

	// MinShippingDays is the fastest known delivery estimate.
	// HasShippingDays is false when no candidate declares one.
	MinShippingDays int
	HasShippingDays bool
}

// ComputePopulation derives population statistics from raw candidates.
// Non-finite or non-positive prices are excluded from price statistics.
func ComputePopulation(candidates []RawCandidate) Population {
	var pop Population

	prices := make(stats.Float64Data, 0, len(candidates))
	ratings := make(stats.Float64Data, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		if c.Price > 0 && !math.IsNaN(c.Price) && !math.IsInf(c.Price, 0) {
			prices = append(prices, c.Price)
		}
		if c.Rating != nil && *c.Rating > 0 {
			ratings = append(ratings, *c.Rating)
		}
		if c.ReviewCount != nil && *c.ReviewCount > pop.MaxReviews {
			pop.MaxReviews = *c.ReviewCount
		}
		if c.ShippingPrice != nil && *c.ShippingPrice > pop.MaxShippingPrice {
			pop.MaxShippingPrice = *c.ShippingPrice
		}
		if c.ShippingDays != nil && *c.ShippingDays > 0 {
			if !pop.HasShippingDays || *c.ShippingDays < pop.MinShippingDays {
				pop.MinShippingDays = *c.ShippingDays
				pop.HasShippingDays = true
			}
		}
	}

	pop.PricedCount = len(prices)
	if len(prices) > 0 {
		pop.MinPrice, _ = prices.Min()
		pop.MaxPrice, _ = prices.Max()
		pop.MeanPrice, _ = prices.Mean()
		pop.MedianPrice, _ = prices.Median()
		if len(prices) > 1 {
			pop.StddevPrice, _ = prices.StandardDeviation()
		}
	}
	if len(ratings) > 0 {
		pop.MeanRating, _ = ratings.Mean()
		pop.HasRatings = true
	}
	return pop
}
