// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

// Package trust derives presentation-only metadata from the guarded
// candidate set: population-relative labels, a short explanation, a
// confidence tier, a call-to-action variant, and a risk disclosure.
// The annotator is strictly read-only over pipeline decisions.
package trust

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dealscout/internal/metrics"
	"github.com/tomtom215/dealscout/internal/pipeline"
)

// Config tunes the annotator.
type Config struct {
	// ScoreGapThreshold is the top-vs-runner-up score gap below which
	// the AI explainer is consulted for the top candidate.
	ScoreGapThreshold float64 `json:"score_gap_threshold" koanf:"score_gap_threshold"`

	// MostReviewedPercentile is the review-count percentile rank at or
	// above which the most_reviewed label applies.
	MostReviewedPercentile float64 `json:"most_reviewed_percentile" koanf:"most_reviewed_percentile"`

	// HighestRatedPercentile is the rating percentile rank at or above
	// which the highest_rated label applies.
	HighestRatedPercentile float64 `json:"highest_rated_percentile" koanf:"highest_rated_percentile"`
}

// DefaultConfig returns the calibrated annotator defaults.
func DefaultConfig() Config {
	return Config{
		ScoreGapThreshold:      0.1,
		MostReviewedPercentile: 0.75,
		HighestRatedPercentile: 0.90,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ScoreGapThreshold < 0 || c.ScoreGapThreshold > 1 {
		return fmt.Errorf("trust.score_gap_threshold must be in [0, 1], got %f", c.ScoreGapThreshold)
	}
	if c.MostReviewedPercentile < 0 || c.MostReviewedPercentile > 1 {
		return fmt.Errorf("trust.most_reviewed_percentile must be in [0, 1], got %f", c.MostReviewedPercentile)
	}
	if c.HighestRatedPercentile < 0 || c.HighestRatedPercentile > 1 {
		return fmt.Errorf("trust.highest_rated_percentile must be in [0, 1], got %f", c.HighestRatedPercentile)
	}
	return nil
}

// Annotator computes trust annotations for guarded candidates.
type Annotator struct {
	cfg       Config
	explainer Explainer
	logger    zerolog.Logger
}

// NewAnnotator builds an annotator. explainer may be nil, in which case
// the deterministic template is always used.
func NewAnnotator(cfg Config, explainer Explainer, logger zerolog.Logger) *Annotator {
	return &Annotator{
		cfg:       cfg,
		explainer: explainer,
		logger:    logger.With().Str("component", "trust").Logger(),
	}
}

// Annotate computes one annotation per candidate. The input slice and
// its candidates are never modified. Candidates are assumed to arrive
// in pipeline rank order (highest score first).
func (a *Annotator) Annotate(ctx context.Context, candidates []pipeline.GuardedCandidate) []Annotation {
	if len(candidates) == 0 {
		return []Annotation{}
	}

	pop := buildTrustPopulation(candidates)

	out := make([]Annotation, len(candidates))
	for idx := range candidates {
		c := &candidates[idx]
		out[idx] = Annotation{
			CandidateID: c.ID,
			Platform:    c.Platform,
			Labels:      a.labels(c, pop),
			Explanation: a.explain(ctx, idx, candidates),
			Confidence:  confidenceTier(c),
			CTA:         ctaVariant(c),
			Risk:        riskDisclosure(c, pop),
		}
	}
	return out
}

// labels computes population-relative labels, sorted by display
// priority.
func (a *Annotator) labels(c *pipeline.GuardedCandidate, pop trustPopulation) []Label {
	var out []Label
	add := func(kind LabelKind) {
		out = append(out, Label{Kind: kind, Priority: labelPriorities[kind]})
	}

	if pop.bestValueKey != "" && pop.bestValueKey == candidateKey(c) {
		add(LabelBestValue)
	}
	if c.Rating != nil && pop.ratingRank(*c.Rating) >= a.cfg.HighestRatedPercentile {
		add(LabelHighestRated)
	}
	if c.ReviewCount != nil && pop.reviewRank(*c.ReviewCount) >= a.cfg.MostReviewedPercentile {
		add(LabelMostReviewed)
	}
	if c.ShippingDays != nil && pop.hasShippingDays && *c.ShippingDays == pop.minShippingDays {
		add(LabelFastestDelivery)
	}
	if c.Price > 0 && pop.minPrice > 0 && c.Price == pop.minPrice {
		add(LabelLowestPrice)
	}
	if c.ShippingPrice != nil && *c.ShippingPrice == 0 {
		add(LabelFreeShipping)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// explain builds the explanation for candidates[idx]. The AI explainer
// is consulted only for the top candidate when the race is close; its
// failure always falls back to the deterministic template.
func (a *Annotator) explain(ctx context.Context, idx int, candidates []pipeline.GuardedCandidate) Explanation {
	c := &candidates[idx]

	if idx == 0 && len(candidates) > 1 && a.explainer != nil {
		gap := candidates[0].Score - candidates[1].Score
		if gap < a.cfg.ScoreGapThreshold {
			expl, err := a.explainer.Explain(ctx, candidates[0], candidates[1])
			if err == nil {
				metrics.ExplainerRequests.WithLabelValues("ai", "success").Inc()
				return expl
			}
			metrics.ExplainerRequests.WithLabelValues("ai", "fallback").Inc()
			a.logger.Warn().Err(err).Msg("ai explainer failed, using template")
		}
	}

	metrics.ExplainerRequests.WithLabelValues("template", "success").Inc()
	return templateExplanation(c)
}

// templateExplanation is the deterministic fallback: up to three points
// from the strongest available facts.
func templateExplanation(c *pipeline.GuardedCandidate) Explanation {
	var points []string

	if c.Rating != nil && *c.Rating > 0 {
		if reviews := intOrZero(c.ReviewCount); reviews > 0 {
			points = append(points, fmt.Sprintf("Rated %.1f/5 across %d reviews", *c.Rating, reviews))
		} else {
			points = append(points, fmt.Sprintf("Rated %.1f/5", *c.Rating))
		}
	}
	if c.Badge != pipeline.BadgeNone {
		points = append(points, badgePoint(c.Badge))
	}
	if len(points) < 3 && c.ShippingDays != nil && *c.ShippingDays > 0 && *c.ShippingDays <= 5 {
		points = append(points, fmt.Sprintf("Delivers in about %d days", *c.ShippingDays))
	}
	if len(points) < 3 && c.ShippingPrice != nil && *c.ShippingPrice == 0 {
		points = append(points, "Ships free")
	}
	if len(points) < 3 && c.IsRisky {
		points = append(points, "Some quality signals are below the usual bar")
	}
	if len(points) == 0 {
		points = append(points, fmt.Sprintf("Available on %s for %.2f", c.Platform, c.Price))
	}
	if len(points) > 3 {
		points = points[:3]
	}

	sentiment := SentimentNeutral
	switch {
	case c.IsRisky:
		sentiment = SentimentCautious
	case c.IsRecommended && c.Badge != pipeline.BadgeNone:
		sentiment = SentimentPositive
	}
	return Explanation{Points: points, Sentiment: sentiment}
}

func badgePoint(b pipeline.Badge) string {
	switch b {
	case pipeline.BadgeBestChoice:
		return "Top pick in this comparison"
	case pipeline.BadgeBestValue:
		return "Strongest quality for the price"
	case pipeline.BadgeFastest:
		return "Fastest delivery of the options found"
	case pipeline.BadgeCheapest:
		return "Lowest price among well-rated options"
	default:
		return ""
	}
}

// confidenceTier counts present key fields: price, rating, reviews,
// delivery estimate, shipping cost.
func confidenceTier(c *pipeline.GuardedCandidate) ConfidenceTier {
	present := 0
	if c.Price > 0 {
		present++
	}
	if c.Rating != nil {
		present++
	}
	if c.ReviewCount != nil {
		present++
	}
	if c.ShippingDays != nil {
		present++
	}
	if c.ShippingPrice != nil {
		present++
	}
	switch {
	case present >= 4:
		return TierHigh
	case present >= 2:
		return TierMedium
	default:
		return TierLow
	}
}

func ctaVariant(c *pipeline.GuardedCandidate) CTAVariant {
	if c.IsRisky {
		return CTAGetOption
	}
	switch c.Badge {
	case pipeline.BadgeBestChoice:
		return CTABuyRecommendation
	case pipeline.BadgeBestValue, pipeline.BadgeCheapest:
		return CTACheckPrice
	default:
		return CTACheckPrice
	}
}

// riskDisclosure compares the candidate to population means and grades
// the accumulated warnings.
func riskDisclosure(c *pipeline.GuardedCandidate, pop trustPopulation) RiskDisclosure {
	var warnings []string

	if c.Rating != nil && pop.hasRatings && *c.Rating < pop.meanRating {
		warnings = append(warnings, fmt.Sprintf("Rating %.1f is below the group average of %.1f", *c.Rating, pop.meanRating))
	} else if c.Rating == nil {
		warnings = append(warnings, "No customer rating available")
	}
	if c.ReviewCount != nil && pop.meanReviews > 0 && float64(*c.ReviewCount) < pop.meanReviews {
		warnings = append(warnings, fmt.Sprintf("Fewer reviews than the group average (%d vs %.0f)", *c.ReviewCount, pop.meanReviews))
	} else if c.ReviewCount == nil {
		warnings = append(warnings, "No review history available")
	}
	if pop.meanPrice > 0 && c.Price > 0 {
		if diff := math.Abs(c.Price-pop.meanPrice) / pop.meanPrice; diff > 0.5 {
			warnings = append(warnings, "Price differs sharply from comparable listings")
		}
	}
	if c.ShippingDays != nil && pop.meanShippingDays > 0 && float64(*c.ShippingDays) > pop.meanShippingDays {
		warnings = append(warnings, "Slower delivery than comparable listings")
	}

	severity := SeverityLow
	switch {
	case c.IsRisky && len(warnings) >= 2:
		severity = SeverityHigh
	case c.IsRisky || len(warnings) >= 2:
		severity = SeverityMedium
	}

	disclosure := RiskDisclosure{Severity: severity, Warnings: warnings}
	if severity != SeverityLow {
		disclosure.Mitigation = "Compare seller history and return policy before buying"
	}
	return disclosure
}

func candidateKey(c *pipeline.GuardedCandidate) string {
	return c.Platform + "\x00" + c.ID
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
