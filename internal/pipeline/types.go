// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

// SearchType classifies how a search was initiated.
type SearchType string

const (
	// SearchTypeURL indicates the query was a product page URL.
	SearchTypeURL SearchType = "url"
	// SearchTypeKeyword indicates the query was free-form keywords.
	SearchTypeKeyword SearchType = "keyword"
)

// SourceProduct is the product extracted from the user's query, when one
// could be identified. All fields are optional; a zero SourceProduct means
// nothing is known about the searched item.
type SourceProduct struct {
	// Name is the extracted product name.
	Name string `json:"name,omitempty"`

	// Price is the price observed on the source page, if any.
	Price *float64 `json:"price,omitempty"`

	// Category is the source listing's category, if any.
	Category string `json:"category,omitempty"`

	// Brand is the extracted brand name, if any.
	Brand string `json:"brand,omitempty"`

	// Store is the merchant/storefront name on the source platform.
	Store string `json:"store,omitempty"`

	// Platform is the marketplace the source listing came from.
	Platform string `json:"platform,omitempty"`
}

// Constraints narrows the acceptable candidate set beyond the built-in
// compatibility rules.
type Constraints struct {
	// MinPrice excludes candidates priced below this value.
	MinPrice *float64 `json:"min_price,omitempty"`

	// MaxPrice excludes candidates priced above this value.
	MaxPrice *float64 `json:"max_price,omitempty"`

	// MinRating excludes candidates with a known rating below this value.
	MinRating *float64 `json:"min_rating,omitempty"`

	// Categories restricts candidates to the listed categories.
	Categories []string `json:"categories,omitempty"`
}

// SearchInput describes one user search as seen by the pipeline.
type SearchInput struct {
	// Query is the raw query text.
	Query string `json:"query" validate:"required"`

	// Type is how the search was initiated.
	Type SearchType `json:"type" validate:"required,oneof=url keyword"`

	// Source is the product extracted from the query, if any.
	Source *SourceProduct `json:"source,omitempty"`

	// Constraints are optional user-supplied filters.
	Constraints *Constraints `json:"constraints,omitempty"`
}

// RawCandidate is one marketplace listing as delivered by an upstream
// provider. Optional numeric fields are pointers so an absent value is
// distinguishable from zero.
type RawCandidate struct {
	// ID is the listing identifier, unique within its platform.
	ID string `json:"id"`

	// Platform is the marketplace the listing came from.
	Platform string `json:"platform"`

	// Title is the listing title.
	Title string `json:"title"`

	// Price is the listing price in Currency units.
	Price float64 `json:"price"`

	// Currency is the ISO 4217 currency code.
	Currency string `json:"currency,omitempty"`

	// Rating is the average customer rating on a 0-5 scale, if known.
	Rating *float64 `json:"rating,omitempty"`

	// ReviewCount is the number of customer reviews, if known.
	ReviewCount *int `json:"review_count,omitempty"`

	// ShippingPrice is the shipping cost, if known. Zero means free.
	ShippingPrice *float64 `json:"shipping_price,omitempty"`

	// ShippingDays is the estimated delivery time in days, if known.
	ShippingDays *int `json:"shipping_days,omitempty"`

	// Category is the platform's category label for the listing.
	Category string `json:"category,omitempty"`

	// Brand is the listed brand, if any.
	Brand string `json:"brand,omitempty"`

	// Store is the merchant/storefront name.
	Store string `json:"store,omitempty"`

	// Description is the listing description, possibly truncated.
	Description string `json:"description,omitempty"`

	// URL is the listing's product page.
	URL string `json:"url,omitempty"`

	// Metadata carries provider-specific fields the pipeline ignores.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FactorScore records one scoring factor's contribution to a candidate's
// composite score.
type FactorScore struct {
	// Raw is the factor's input value before normalization (price in
	// currency units, rating on its 0-5 scale, and so on).
	Raw float64 `json:"raw"`

	// Normalized is the factor value mapped into [0, 1].
	Normalized float64 `json:"normalized"`

	// Weight is the factor's weight in the composite.
	Weight float64 `json:"weight"`

	// Contribution is Normalized * Weight.
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown explains how a composite score was assembled.
type ScoreBreakdown struct {
	Price    FactorScore `json:"price"`
	Rating   FactorScore `json:"rating"`
	Reviews  FactorScore `json:"reviews"`
	Shipping FactorScore `json:"shipping"`

	// QualityPenalty is the total subtracted for quality signals.
	QualityPenalty float64 `json:"quality_penalty,omitempty"`
}

// ScoredCandidate is a candidate with its composite score and the data
// completeness confidence attached.
type ScoredCandidate struct {
	RawCandidate

	// Score is the composite score in [0, 1].
	Score float64 `json:"score"`

	// Confidence reflects data completeness, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Breakdown explains the score per factor.
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Badge marks a candidate's standout quality. Badges are mutually
// exclusive: a candidate carries at most one.
type Badge string

const (
	// BadgeBestChoice marks the highest-scoring well-reviewed candidate.
	BadgeBestChoice Badge = "best_choice"
	// BadgeBestValue marks the best quality-per-price candidate.
	BadgeBestValue Badge = "best_value"
	// BadgeFastest marks the quickest-shipping candidate.
	BadgeFastest Badge = "fastest"
	// BadgeCheapest marks the lowest-priced acceptable candidate.
	BadgeCheapest Badge = "cheapest"
	// BadgeNone means no badge was awarded.
	BadgeNone Badge = ""
)

// RankedCandidate is a scored candidate with its badge assignment.
type RankedCandidate struct {
	ScoredCandidate

	// Badge is the awarded badge, or BadgeNone.
	Badge Badge `json:"badge,omitempty"`
}

// GuardedCandidate is a ranked candidate after guardrail evaluation.
// Guardrails never remove candidates; they partition them.
type GuardedCandidate struct {
	RankedCandidate

	// IsRecommended is true when the candidate passed every guardrail
	// check, or when it is the only candidate.
	IsRecommended bool `json:"is_recommended"`

	// ReasoningTags are positive signals ("Good Deal") attached during
	// guardrail evaluation. Deduplicated, insertion order preserved.
	ReasoningTags []string `json:"reasoning_tags,omitempty"`

	// IsRisky is true when the candidate failed at least one check.
	IsRisky bool `json:"is_risky,omitempty"`

	// RiskReasons are human-readable failure descriptions, one per
	// failed check, in check order.
	RiskReasons []string `json:"risk_reasons,omitempty"`
}

// Result is the pipeline's output for one search.
type Result struct {
	// Candidates is the full guarded set, recommended and risky alike,
	// in final rank order.
	Candidates []GuardedCandidate `json:"candidates"`

	// Stats summarizes how many candidates each stage saw and kept.
	Stats StageStats `json:"stats"`
}

// Recommended returns the strict view: candidates that are both
// recommended and free of risk flags. A lone candidate kept by the
// fail-open rule is recommended yet risky, so it is excluded here and
// visible only in the permissive full set.
func (r *Result) Recommended() []GuardedCandidate {
	out := make([]GuardedCandidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.IsRecommended && !c.IsRisky {
			out = append(out, c)
		}
	}
	return out
}

// StageStats counts candidates entering and leaving each stage.
type StageStats struct {
	RawCount       int `json:"raw_count"`
	MatchedCount   int `json:"matched_count"`
	ScoredCount    int `json:"scored_count"`
	RecommendedCnt int `json:"recommended_count"`
	RiskyCount     int `json:"risky_count"`
}
