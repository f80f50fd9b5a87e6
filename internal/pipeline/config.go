// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"fmt"
	"math"
)

// Weights holds the scoring factor weights. They must sum to 1.0.
type Weights struct {
	Price    float64 `json:"price" koanf:"price"`
	Rating   float64 `json:"rating" koanf:"rating"`
	Reviews  float64 `json:"reviews" koanf:"reviews"`
	Shipping float64 `json:"shipping" koanf:"shipping"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Rating + w.Reviews + w.Shipping
}

// MatcherConfig controls candidate filtering and deduplication.
type MatcherConfig struct {
	// MaxCandidates caps the matched set. Earlier candidates win.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// PriceBandPct is the allowed deviation from the source price,
	// as a fraction (0.40 accepts 60%-140% of the source price).
	PriceBandPct float64 `json:"price_band_pct" koanf:"price_band_pct"`

	// MinKeywordOverlap is the minimum shared keywords between a
	// candidate title and the query for keyword searches.
	MinKeywordOverlap int `json:"min_keyword_overlap" koanf:"min_keyword_overlap"`

	// MaxStorageDeltaGB is the largest storage capacity difference, in
	// GB, tolerated when both sides declare a capacity.
	MaxStorageDeltaGB int `json:"max_storage_delta_gb" koanf:"max_storage_delta_gb"`

	// MaxScreenDeltaInches is the largest screen size difference, in
	// inches, tolerated when both sides declare one.
	MaxScreenDeltaInches float64 `json:"max_screen_delta_inches" koanf:"max_screen_delta_inches"`
}

// ScorerConfig controls composite scoring and confidence.
type ScorerConfig struct {
	// Weights are the factor weights. Must sum to 1.0.
	Weights Weights `json:"weights" koanf:"weights"`

	// QualityPenalty enables subtractive quality signals.
	QualityPenalty bool `json:"quality_penalty" koanf:"quality_penalty"`

	// BayesPriorStrength is the pseudo-review count anchoring sparse
	// ratings to the population mean.
	BayesPriorStrength float64 `json:"bayes_prior_strength" koanf:"bayes_prior_strength"`

	// DefaultMeanRating substitutes for the population mean rating when
	// no candidate has a rating.
	DefaultMeanRating float64 `json:"default_mean_rating" koanf:"default_mean_rating"`

	// MinReviewThreshold is the review count below which the review
	// factor collapses to ReviewFloorScore.
	MinReviewThreshold int `json:"min_review_threshold" koanf:"min_review_threshold"`

	// ReviewFloorScore is the review factor value for thin review
	// counts above zero.
	ReviewFloorScore float64 `json:"review_floor_score" koanf:"review_floor_score"`

	// MinConfidence drops candidates whose data completeness
	// confidence falls below it.
	MinConfidence float64 `json:"min_confidence" koanf:"min_confidence"`

	// MaxResults caps the scored output.
	MaxResults int `json:"max_results" koanf:"max_results"`
}

// RankerConfig controls badge eligibility.
type RankerConfig struct {
	// BestChoiceMinRating is the rating floor for best_choice.
	BestChoiceMinRating float64 `json:"best_choice_min_rating" koanf:"best_choice_min_rating"`

	// BestChoiceMinReviews is the review floor for best_choice.
	BestChoiceMinReviews int `json:"best_choice_min_reviews" koanf:"best_choice_min_reviews"`

	// CheapestMinRating is the rating floor for cheapest, so the badge
	// never endorses junk.
	CheapestMinRating float64 `json:"cheapest_min_rating" koanf:"cheapest_min_rating"`
}

// Thresholds is one layer of guardrail limits. Nil pointer fields leave
// the previous layer's value in place.
type Thresholds struct {
	MinRating          *float64 `json:"min_rating,omitempty" koanf:"min_rating"`
	MinReviewCount     *int     `json:"min_review_count,omitempty" koanf:"min_review_count"`
	PriceOutlierFactor *float64 `json:"price_outlier_factor,omitempty" koanf:"price_outlier_factor"`
	GoodDealFactor     *float64 `json:"good_deal_factor,omitempty" koanf:"good_deal_factor"`
}

// GuardrailConfig controls safety filtering.
type GuardrailConfig struct {
	// Global is the base threshold layer. All fields should be set.
	Global Thresholds `json:"global" koanf:"global"`

	// CategoryOverrides overlays thresholds per normalized category.
	CategoryOverrides map[string]Thresholds `json:"category_overrides,omitempty" koanf:"category_overrides"`

	// TrustedPlatforms get relaxed rating/review floors.
	TrustedPlatforms []string `json:"trusted_platforms,omitempty" koanf:"trusted_platforms"`

	// StricterPlatforms get raised rating/review floors.
	StricterPlatforms []string `json:"stricter_platforms,omitempty" koanf:"stricter_platforms"`

	// TrustedRatingRelief lowers the rating floor for trusted
	// platforms, bounded below by TrustedRatingFloor.
	TrustedRatingRelief float64 `json:"trusted_rating_relief" koanf:"trusted_rating_relief"`
	TrustedRatingFloor  float64 `json:"trusted_rating_floor" koanf:"trusted_rating_floor"`

	// TrustedReviewRelief lowers the review floor for trusted
	// platforms, bounded below by TrustedReviewFloor.
	TrustedReviewRelief int `json:"trusted_review_relief" koanf:"trusted_review_relief"`
	TrustedReviewFloor  int `json:"trusted_review_floor" koanf:"trusted_review_floor"`

	// StricterRatingRaise raises the rating floor for stricter
	// platforms. StricterReviewMin is the minimum review floor there.
	StricterRatingRaise float64 `json:"stricter_rating_raise" koanf:"stricter_rating_raise"`
	StricterReviewMin   int     `json:"stricter_review_min" koanf:"stricter_review_min"`

	// MinPricedForMedian is how many priced candidates the population
	// needs before price-outlier checks apply.
	MinPricedForMedian int `json:"min_priced_for_median" koanf:"min_priced_for_median"`
}

// Config is the full pipeline configuration.
type Config struct {
	Matcher   MatcherConfig   `json:"matcher" koanf:"matcher"`
	Scorer    ScorerConfig    `json:"scorer" koanf:"scorer"`
	Ranker    RankerConfig    `json:"ranker" koanf:"ranker"`
	Guardrail GuardrailConfig `json:"guardrail" koanf:"guardrail"`
}

// DefaultConfig returns the reference configuration. All numeric values
// here are the calibrated production defaults.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			MaxCandidates:        30,
			PriceBandPct:         0.40,
			MinKeywordOverlap:    1,
			MaxStorageDeltaGB:    5,
			MaxScreenDeltaInches: 0.3,
		},
		Scorer: ScorerConfig{
			Weights: Weights{
				Price:    0.35,
				Rating:   0.30,
				Reviews:  0.15,
				Shipping: 0.20,
			},
			QualityPenalty:     true,
			BayesPriorStrength: 50,
			DefaultMeanRating:  3.5,
			MinReviewThreshold: 10,
			ReviewFloorScore:   0.05,
			MinConfidence:      0.6,
			MaxResults:         10,
		},
		Ranker: RankerConfig{
			BestChoiceMinRating:  4.0,
			BestChoiceMinReviews: 50,
			CheapestMinRating:    3.8,
		},
		Guardrail: GuardrailConfig{
			Global: Thresholds{
				MinRating:          f64(4.0),
				MinReviewCount:     i(10),
				PriceOutlierFactor: f64(0.4),
				GoodDealFactor:     f64(0.85),
			},
			CategoryOverrides: map[string]Thresholds{
				"electronics": {
					MinRating:      f64(4.2),
					MinReviewCount: i(50),
				},
				"clothing": {
					MinRating: f64(3.8),
				},
			},
			TrustedPlatforms:    []string{"amazon", "bestbuy"},
			StricterPlatforms:   []string{"aliexpress", "wish"},
			TrustedRatingRelief: 0.1,
			TrustedRatingFloor:  3.5,
			TrustedReviewRelief: 5,
			TrustedReviewFloor:  1,
			StricterRatingRaise: 0.2,
			StricterReviewMin:   20,
			MinPricedForMedian:  3,
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Matcher.MaxCandidates <= 0 {
		return fmt.Errorf("matcher.max_candidates must be positive, got %d", c.Matcher.MaxCandidates)
	}
	if c.Matcher.PriceBandPct <= 0 || c.Matcher.PriceBandPct >= 1 {
		return fmt.Errorf("matcher.price_band_pct must be in (0, 1), got %f", c.Matcher.PriceBandPct)
	}
	if sum := c.Scorer.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scorer.weights must sum to 1.0, got %f", sum)
	}
	if c.Scorer.Weights.Price < 0 || c.Scorer.Weights.Rating < 0 ||
		c.Scorer.Weights.Reviews < 0 || c.Scorer.Weights.Shipping < 0 {
		return fmt.Errorf("scorer.weights must be non-negative")
	}
	if c.Scorer.BayesPriorStrength < 0 {
		return fmt.Errorf("scorer.bayes_prior_strength must be non-negative, got %f", c.Scorer.BayesPriorStrength)
	}
	if c.Scorer.DefaultMeanRating < 0 || c.Scorer.DefaultMeanRating > 5 {
		return fmt.Errorf("scorer.default_mean_rating must be in [0, 5], got %f", c.Scorer.DefaultMeanRating)
	}
	if c.Scorer.MinConfidence < 0 || c.Scorer.MinConfidence > 1 {
		return fmt.Errorf("scorer.min_confidence must be in [0, 1], got %f", c.Scorer.MinConfidence)
	}
	if c.Scorer.MaxResults <= 0 {
		return fmt.Errorf("scorer.max_results must be positive, got %d", c.Scorer.MaxResults)
	}
	if c.Ranker.BestChoiceMinRating < 0 || c.Ranker.BestChoiceMinRating > 5 {
		return fmt.Errorf("ranker.best_choice_min_rating must be in [0, 5], got %f", c.Ranker.BestChoiceMinRating)
	}
	if c.Ranker.CheapestMinRating < 0 || c.Ranker.CheapestMinRating > 5 {
		return fmt.Errorf("ranker.cheapest_min_rating must be in [0, 5], got %f", c.Ranker.CheapestMinRating)
	}
	if c.Guardrail.Global.MinRating == nil || c.Guardrail.Global.MinReviewCount == nil ||
		c.Guardrail.Global.PriceOutlierFactor == nil || c.Guardrail.Global.GoodDealFactor == nil {
		return fmt.Errorf("guardrail.global must set all threshold fields")
	}
	if *c.Guardrail.Global.PriceOutlierFactor <= 0 || *c.Guardrail.Global.PriceOutlierFactor >= 1 {
		return fmt.Errorf("guardrail.global.price_outlier_factor must be in (0, 1), got %f", *c.Guardrail.Global.PriceOutlierFactor)
	}
	if c.Guardrail.MinPricedForMedian < 3 {
		return fmt.Errorf("guardrail.min_priced_for_median must be at least 3, got %d", c.Guardrail.MinPricedForMedian)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Guardrail.Global = c.Guardrail.Global.clone()
	if c.Guardrail.CategoryOverrides != nil {
		clone.Guardrail.CategoryOverrides = make(map[string]Thresholds, len(c.Guardrail.CategoryOverrides))
		for k, v := range c.Guardrail.CategoryOverrides {
			clone.Guardrail.CategoryOverrides[k] = v.clone()
		}
	}
	clone.Guardrail.TrustedPlatforms = append([]string(nil), c.Guardrail.TrustedPlatforms...)
	clone.Guardrail.StricterPlatforms = append([]string(nil), c.Guardrail.StricterPlatforms...)
	return &clone
}

func (t Thresholds) clone() Thresholds {
	out := Thresholds{}
	if t.MinRating != nil {
		out.MinRating = f64(*t.MinRating)
	}
	if t.MinReviewCount != nil {
		out.MinReviewCount = i(*t.MinReviewCount)
	}
	if t.PriceOutlierFactor != nil {
		out.PriceOutlierFactor = f64(*t.PriceOutlierFactor)
	}
	if t.GoodDealFactor != nil {
		out.GoodDealFactor = f64(*t.GoodDealFactor)
	}
	return out
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
