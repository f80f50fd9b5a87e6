// DealScout - Marketplace Alternative Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dealscout

package affiliate

import "testing"

func TestLink(t *testing.T) {
	b := NewBuilder(Config{
		Templates: map[string]string{
			"Amazon ": "https://amazon.example/dp/{id}?tag={tag}",
			"ebay":    "https://rover.example/rd?u={url}&aff={tag}",
		},
		Tag: "deals-20",
	})

	tests := []struct {
		name       string
		platform   string
		productID  string
		productURL string
		want       string
	}{
		{
			"id template",
			"amazon", "B0TEST123", "https://amazon.example/dp/B0TEST123",
			"https://amazon.example/dp/B0TEST123?tag=deals-20",
		},
		{
			"platform lookup is case-insensitive and trimmed",
			" AMAZON ", "B0TEST123", "",
			"https://amazon.example/dp/B0TEST123?tag=deals-20",
		},
		{
			"url template escapes the product url",
			"ebay", "123", "https://ebay.example/itm/123?x=1",
			"https://rover.example/rd?u=https%3A%2F%2Febay.example%2Fitm%2F123%3Fx%3D1&aff=deals-20",
		},
		{
			"unknown platform passes through",
			"wish", "w1", "https://wish.example/product/w1",
			"https://wish.example/product/w1",
		},
		{
			"unknown platform without url yields empty",
			"wish", "w1", "",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Link(tt.platform, tt.productID, tt.productURL); got != tt.want {
				t.Errorf("Link() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLink_EscapesID(t *testing.T) {
	b := NewBuilder(Config{
		Templates: map[string]string{"shop": "https://shop.example/p/{id}"},
	})

	got := b.Link("shop", "a b&c", "")
	want := "https://shop.example/p/a+b%26c"
	if got != want {
		t.Errorf("Link() = %q, want %q", got, want)
	}
}

func TestDefaultConfigPassesThrough(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	if got := b.Link("amazon", "id", "https://example.com/p"); got != "https://example.com/p" {
		t.Errorf("Link() = %q, want raw product url", got)
	}
}
