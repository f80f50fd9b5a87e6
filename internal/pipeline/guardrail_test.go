// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package pipeline

import (
	"strings"
	"testing"
)

func rankedFixture(id, platform string, price float64, rating *float64, reviews *int) RankedCandidate {
	return RankedCandidate{
		ScoredCandidate: ScoredCandidate{
			RawCandidate: RawCandidate{
				ID:          id,
				Platform:    platform,
				Title:       "fixture product listing",
				Price:       price,
				Rating:      rating,
				ReviewCount: reviews,
			},
			Score:      0.5,
			Confidence: 0.8,
		},
		Badge: BadgeNone,
	}
}

func hasTag(c GuardedCandidate, tag string) bool {
	for _, t := range c.ReasoningTags {
		if t == tag {
			return true
		}
	}
	return false
}

func hasReason(c GuardedCandidate, substr string) bool {
	for _, r := range c.RiskReasons {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestGuard_QualityFloor(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	tests := []struct {
		name       string
		rating     *float64
		wantPass   bool
		wantReason string
	}{
		{"at threshold", f64(4.0), true, ""},
		{"above threshold", f64(4.7), true, ""},
		{"below threshold", f64(3.9), false, "Rating 3.9 is below the 4.0 threshold"},
		{"missing rating", nil, false, "Rating 0.0 is below the 4.0 threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Two candidates only, so the median price check is skipped.
			in := []RankedCandidate{
				rankedFixture("c1", "ebay", 100, tt.rating, i(200)),
				rankedFixture("c2", "ebay", 100, f64(4.5), i(200)),
			}
			guarded := Guard(in, cfg)

			got := guarded[0]
			if got.IsRecommended != tt.wantPass {
				t.Errorf("IsRecommended = %v, want %v (reasons %v)", got.IsRecommended, tt.wantPass, got.RiskReasons)
			}
			if tt.wantPass && !hasTag(got, "High Rating") {
				t.Errorf("tags = %v, want High Rating", got.ReasoningTags)
			}
			if tt.wantReason != "" && !hasReason(got, tt.wantReason) {
				t.Errorf("reasons = %v, want %q", got.RiskReasons, tt.wantReason)
			}
		})
	}
}

func TestGuard_SocialProof(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	tests := []struct {
		name       string
		reviews    *int
		wantPass   bool
		wantReason string
	}{
		{"at minimum", i(10), true, ""},
		{"below minimum", i(9), false, "Only 9 reviews (minimum 10)"},
		{"missing reviews", nil, false, "Only 0 reviews (minimum 10)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []RankedCandidate{
				rankedFixture("c1", "ebay", 100, f64(4.5), tt.reviews),
				rankedFixture("c2", "ebay", 100, f64(4.5), i(200)),
			}
			guarded := Guard(in, cfg)

			got := guarded[0]
			if got.IsRecommended != tt.wantPass {
				t.Errorf("IsRecommended = %v, want %v (reasons %v)", got.IsRecommended, tt.wantPass, got.RiskReasons)
			}
			if tt.wantPass && !hasTag(got, "Trusted Seller") {
				t.Errorf("tags = %v, want Trusted Seller", got.ReasoningTags)
			}
			if tt.wantReason != "" && !hasReason(got, tt.wantReason) {
				t.Errorf("reasons = %v, want %q", got.RiskReasons, tt.wantReason)
			}
		})
	}
}

func TestGuard_PriceOutlier(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	// Five priced candidates, median 100. The 0.4 outlier factor puts
	// the cutoff at 40, the 0.85 deal factor at 85.
	in := []RankedCandidate{
		rankedFixture("outlier", "ebay", 35, f64(4.5), i(200)),
		rankedFixture("deal", "ebay", 80, f64(4.5), i(200)),
		rankedFixture("normal", "ebay", 100, f64(4.5), i(200)),
		rankedFixture("n2", "ebay", 100, f64(4.5), i(200)),
		rankedFixture("n3", "ebay", 100, f64(4.5), i(200)),
	}
	guarded := Guard(in, cfg)

	byID := map[string]GuardedCandidate{}
	for _, g := range guarded {
		byID[g.ID] = g
	}

	outlier := byID["outlier"]
	if outlier.IsRecommended {
		t.Error("price outlier must not be recommended")
	}
	if !hasReason(outlier, "Price is 60%+ below the median market price") {
		t.Errorf("reasons = %v, want the 60%%+ outlier message", outlier.RiskReasons)
	}

	deal := byID["deal"]
	if !deal.IsRecommended {
		t.Errorf("deal candidate rejected: %v", deal.RiskReasons)
	}
	if !hasTag(deal, "Good Deal") {
		t.Errorf("tags = %v, want Good Deal", deal.ReasoningTags)
	}
	if hasTag(byID["normal"], "Good Deal") {
		t.Error("median-priced candidate must not be tagged Good Deal")
	}
}

func TestGuard_OutlierCheckNeedsEnoughPrices(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	// Only two priced candidates: no median, so the absurdly cheap one
	// passes the price check.
	in := []RankedCandidate{
		rankedFixture("cheap", "ebay", 2, f64(4.5), i(200)),
		rankedFixture("pricey", "ebay", 500, f64(4.5), i(200)),
	}
	guarded := Guard(in, cfg)

	if !guarded[0].IsRecommended {
		t.Errorf("cheap candidate rejected without price signal: %v", guarded[0].RiskReasons)
	}
	if hasReason(guarded[0], "below the median") {
		t.Errorf("unexpected outlier reason: %v", guarded[0].RiskReasons)
	}
}

func TestGuard_PlatformTiers(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	t.Run("new platform fails with raised floors", func(t *testing.T) {
		// On a standard platform rating 4.1 with 15 reviews passes.
		// On wish the rating floor rises to 4.2 and reviews to 20.
		in := []RankedCandidate{
			rankedFixture("w1", "wish", 100, f64(4.1), i(15)),
			rankedFixture("e1", "ebay", 100, f64(4.1), i(15)),
		}
		guarded := Guard(in, cfg)

		wish := guarded[0]
		if wish.IsRecommended {
			t.Error("wish candidate must not be recommended")
		}
		if !hasReason(wish, `Platform "wish" has limited track record`) {
			t.Errorf("reasons = %v, want the limited track record message", wish.RiskReasons)
		}
		if !hasReason(wish, "Rating 4.1 is below the 4.2 threshold") {
			t.Errorf("reasons = %v, want raised rating threshold", wish.RiskReasons)
		}
		if !hasReason(wish, "Only 15 reviews (minimum 20)") {
			t.Errorf("reasons = %v, want raised review minimum", wish.RiskReasons)
		}
		if !guarded[1].IsRecommended {
			t.Errorf("ebay candidate rejected: %v", guarded[1].RiskReasons)
		}
	})

	t.Run("trusted platform gets relaxed floors", func(t *testing.T) {
		// Rating 3.9 with 5 reviews fails the global 4.0/10 floors but
		// clears the relaxed trusted-platform floors of 3.9/5.
		in := []RankedCandidate{
			rankedFixture("a1", "amazon", 100, f64(3.9), i(5)),
			rankedFixture("e1", "ebay", 100, f64(3.9), i(5)),
		}
		guarded := Guard(in, cfg)

		if !guarded[0].IsRecommended {
			t.Errorf("amazon candidate rejected: %v", guarded[0].RiskReasons)
		}
		if !hasTag(guarded[0], "Trusted Seller") {
			t.Errorf("tags = %v, want Trusted Seller", guarded[0].ReasoningTags)
		}
		if guarded[1].IsRecommended {
			t.Error("ebay candidate with the same stats must fail the global floors")
		}
	})
}

func TestGuard_CategoryOverrides(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	t.Run("electronics tightens floors", func(t *testing.T) {
		c := rankedFixture("c1", "ebay", 100, f64(4.1), i(40))
		c.Category = "electronics"
		other := rankedFixture("c2", "ebay", 100, f64(4.1), i(40))

		guarded := Guard([]RankedCandidate{c, other}, cfg)

		if guarded[0].IsRecommended {
			t.Error("electronics candidate must fail the 4.2/50 override")
		}
		if !hasReason(guarded[0], "Rating 4.1 is below the 4.2 threshold") {
			t.Errorf("reasons = %v", guarded[0].RiskReasons)
		}
		if !hasReason(guarded[0], "Only 40 reviews (minimum 50)") {
			t.Errorf("reasons = %v", guarded[0].RiskReasons)
		}
		if !guarded[1].IsRecommended {
			t.Errorf("uncategorized candidate rejected: %v", guarded[1].RiskReasons)
		}
	})

	t.Run("clothing relaxes rating via substring match", func(t *testing.T) {
		c := rankedFixture("c1", "ebay", 100, f64(3.8), i(40))
		c.Category = "Mens Clothing"
		other := rankedFixture("c2", "ebay", 100, f64(3.8), i(40))

		guarded := Guard([]RankedCandidate{c, other}, cfg)

		if !guarded[0].IsRecommended {
			t.Errorf("clothing candidate rejected: %v", guarded[0].RiskReasons)
		}
		if guarded[1].IsRecommended {
			t.Error("uncategorized candidate must fail the 4.0 floor")
		}
	})
}

func TestGuard_LoneCandidateRecommendedButRisky(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	in := []RankedCandidate{rankedFixture("c1", "wish", 100, f64(2.0), i(1))}
	guarded := Guard(in, cfg)

	got := guarded[0]
	if !got.IsRecommended {
		t.Error("a lone candidate is always recommended")
	}
	if !got.IsRisky {
		t.Error("failing checks must still flag the lone candidate risky")
	}
	if len(got.RiskReasons) == 0 {
		t.Error("risk reasons must be preserved for the lone candidate")
	}
}

func TestGuard_TagsDeduplicated(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	// High reviews on a trusted platform earns Trusted Seller from both
	// the social-proof check and the platform tier.
	in := []RankedCandidate{
		rankedFixture("c1", "amazon", 100, f64(4.5), i(200)),
		rankedFixture("c2", "ebay", 100, f64(4.5), i(200)),
	}
	guarded := Guard(in, cfg)

	count := 0
	for _, tag := range guarded[0].ReasoningTags {
		if tag == "Trusted Seller" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Trusted Seller appeared %d times, want 1", count)
	}
}

func TestGuard_PositiveTags(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	c := rankedFixture("c1", "ebay", 100, f64(4.5), i(200))
	c.ShippingDays = i(2)
	c.ShippingPrice = f64(0)
	c.Description = strings.Repeat("a well written product description ", 3)
	c.Brand = "Acme"
	c.Badge = BadgeBestValue
	other := rankedFixture("c2", "ebay", 100, f64(4.5), i(200))
	other.ShippingDays = i(4)

	guarded := Guard([]RankedCandidate{c, other}, cfg)

	for _, want := range []string{"Express Shipping", "Free Shipping", "Detailed Description", "Brand: Acme", "Best Value"} {
		if !hasTag(guarded[0], want) {
			t.Errorf("tags = %v, missing %q", guarded[0].ReasoningTags, want)
		}
	}
	if !hasTag(guarded[1], "Fast Shipping") {
		t.Errorf("tags = %v, want Fast Shipping", guarded[1].ReasoningTags)
	}
	if hasTag(guarded[1], "Express Shipping") {
		t.Error("four-day shipping must not be tagged Express")
	}
}

func TestGuard_EmptyInput(t *testing.T) {
	if got := Guard(nil, DefaultConfig().Guardrail); len(got) != 0 {
		t.Errorf("Guard(nil) = %d results, want 0", len(got))
	}
}

func TestResolveThresholds(t *testing.T) {
	cfg := DefaultConfig().Guardrail

	tests := []struct {
		name        string
		category    string
		platform    string
		wantRating  float64
		wantReviews int
		wantTier    PlatformTier
	}{
		{"global defaults", "", "ebay", 4.0, 10, TierStandard},
		{"electronics override", "electronics", "ebay", 4.2, 50, TierStandard},
		{"trusted relief", "", "amazon", 3.9, 5, TierTrusted},
		{"trusted relief on override", "electronics", "amazon", 4.1, 45, TierTrusted},
		{"stricter raise", "", "wish", 4.2, 20, TierNew},
		{"stricter keeps higher override minimum", "electronics", "aliexpress", 4.4, 50, TierNew},
		{"unknown platform is standard", "", "newmarket", 4.0, 10, TierStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff := ResolveThresholds(tt.category, tt.platform, cfg)
			if !approxEqual(eff.MinRating, tt.wantRating) {
				t.Errorf("MinRating = %v, want %v", eff.MinRating, tt.wantRating)
			}
			if eff.MinReviewCount != tt.wantReviews {
				t.Errorf("MinReviewCount = %d, want %d", eff.MinReviewCount, tt.wantReviews)
			}
			if eff.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", eff.Tier, tt.wantTier)
			}
		})
	}
}

func TestResolveThresholds_OverlappingOverridesAreStable(t *testing.T) {
	cfg := DefaultConfig().Guardrail
	cfg.CategoryOverrides = map[string]Thresholds{
		"phone":      {MinRating: f64(3.0), MinReviewCount: i(5)},
		"phone case": {MinRating: f64(4.9), MinReviewCount: i(100)},
	}

	t.Run("longest match wins on every call", func(t *testing.T) {
		for run := range 200 {
			eff := ResolveThresholds("premium phone case", "ebay", cfg)
			if !approxEqual(eff.MinRating, 4.9) {
				t.Fatalf("run %d: MinRating = %v, want 4.9", run, eff.MinRating)
			}
			if eff.MinReviewCount != 100 {
				t.Fatalf("run %d: MinReviewCount = %d, want 100", run, eff.MinReviewCount)
			}
		}
	})

	t.Run("exact key beats substring candidates", func(t *testing.T) {
		eff := ResolveThresholds("phone", "ebay", cfg)
		if !approxEqual(eff.MinRating, 3.0) {
			t.Errorf("MinRating = %v, want 3.0", eff.MinRating)
		}
	})

	t.Run("equal-length matches break ties by key order", func(t *testing.T) {
		cfg.CategoryOverrides = map[string]Thresholds{
			"red case": {MinRating: f64(3.2)},
			"case set": {MinRating: f64(4.5)},
		}
		for run := range 200 {
			eff := ResolveThresholds("red case set", "ebay", cfg)
			if !approxEqual(eff.MinRating, 4.5) {
				t.Fatalf("run %d: MinRating = %v, want 4.5", run, eff.MinRating)
			}
		}
	})
}
