// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package trust

import "github.com/tomtom215/dealscout/internal/pipeline"

// LabelKind identifies a population-relative label. Each kind carries a
// fixed display priority; lower sorts first.
type LabelKind string

const (
	LabelBestValue       LabelKind = "best_value"
	LabelHighestRated    LabelKind = "highest_rated"
	LabelMostReviewed    LabelKind = "most_reviewed"
	LabelFastestDelivery LabelKind = "fastest_delivery"
	LabelLowestPrice     LabelKind = "lowest_price"
	LabelFreeShipping    LabelKind = "free_shipping"
)

// labelPriorities fixes display order across all consumers.
var labelPriorities = map[LabelKind]int{
	LabelBestValue:       1,
	LabelHighestRated:    2,
	LabelMostReviewed:    3,
	LabelFastestDelivery: 4,
	LabelLowestPrice:     5,
	LabelFreeShipping:    6,
}

// Label is one population-relative marker with its display priority.
type Label struct {
	Kind     LabelKind `json:"kind"`
	Priority int       `json:"priority"`
}

// Sentiment classifies the overall tone of an explanation.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentCautious Sentiment = "cautious"
)

// Explanation is a short plain-language justification, at most three
// points, with an overall sentiment.
type Explanation struct {
	Points    []string  `json:"points"`
	Sentiment Sentiment `json:"sentiment"`

	// Generated is true when the text came from the AI explainer
	// rather than the deterministic template.
	Generated bool `json:"generated,omitempty"`
}

// ConfidenceTier buckets data completeness for display.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "High"
	TierMedium ConfidenceTier = "Medium"
	TierLow    ConfidenceTier = "Low"
)

// CTAVariant selects the call-to-action presentation.
type CTAVariant string

const (
	CTABuyRecommendation CTAVariant = "buy_recommendation"
	CTACheckPrice        CTAVariant = "check_price"
	CTAGetOption         CTAVariant = "get_option"
)

// RiskSeverity grades a risk disclosure.
type RiskSeverity string

const (
	SeverityLow    RiskSeverity = "low"
	SeverityMedium RiskSeverity = "medium"
	SeverityHigh   RiskSeverity = "high"
)

// RiskDisclosure summarizes a candidate's weak points relative to the
// population, with an optional mitigation suggestion.
type RiskDisclosure struct {
	Severity   RiskSeverity `json:"severity"`
	Warnings   []string     `json:"warnings,omitempty"`
	Mitigation string       `json:"mitigation,omitempty"`
}

// Annotation is presentation-only metadata layered on one guarded
// candidate. It never feeds back into pipeline decisions.
type Annotation struct {
	// CandidateID pairs the annotation with its candidate.
	CandidateID string `json:"candidate_id"`
	Platform    string `json:"platform"`

	// Labels are ordered by ascending display priority.
	Labels []Label `json:"labels,omitempty"`

	Explanation Explanation    `json:"explanation"`
	Confidence  ConfidenceTier `json:"confidence_tier"`
	CTA         CTAVariant     `json:"cta_variant"`
	Risk        RiskDisclosure `json:"risk_disclosure"`
}

// AnnotatedCandidate bundles a guarded candidate with its annotation
// under a separate, removable namespace.
type AnnotatedCandidate struct {
	pipeline.GuardedCandidate

	Trust *Annotation `json:"trust,omitempty"`

	// AffiliateURL is the tracking link, attached after guardrail
	// filtering and never influencing selection.
	AffiliateURL string `json:"affiliate_url,omitempty"`
}
