package featured_test

import (
	"errors"
	"testing"

	"github.com/hirelane/hirelane-api/internal/domain/featured"
)

/* =========================
   Test: Quote Tier Boundaries
   ========================= */

func TestQuoteTierBoundaries(t *testing.T) {
	calc := featured.NewCalculator(featured.DefaultPricingConfig())

	cases := []struct {
		quantity int
		discount float64
	}{
		{1, 0},
		{4, 0},
		{5, 5},
		{9, 5},
		{10, 8},
		{14, 8},
		{15, 10},
		{19, 10},
		{20, 15},
		{29, 15},
		{30, 20},
		{100, 20},
	}

	for _, tc := range cases {
		quote, err := calc.Quote(tc.quantity)
		requireNoError(t, err)

		if quote.DiscountPercent != tc.discount {
			t.Errorf("quantity %d: expected %.0f%% discount, got %.0f%%",
				tc.quantity, tc.discount, quote.DiscountPercent)
		}
	}
}

/* =========================
   Test: Quote Twenty Credits
   ========================= */

func TestQuoteTwentyCredits(t *testing.T) {
	calc := featured.NewCalculator(featured.DefaultPricingConfig())

	quote, err := calc.Quote(20)
	requireNoError(t, err)

	if quote.PricePerCredit != 25 {
		t.Errorf("expected price per credit 25, got %v", quote.PricePerCredit)
	}
	if quote.OriginalPrice != 500 {
		t.Errorf("expected original price 500, got %v", quote.OriginalPrice)
	}
	if quote.DiscountPercent != 15 {
		t.Errorf("expected 15%% discount, got %v", quote.DiscountPercent)
	}
	if quote.DiscountAmount != 75 {
		t.Errorf("expected discount amount 75, got %v", quote.DiscountAmount)
	}
	if quote.FinalPrice != 425 {
		t.Errorf("expected final price 425, got %v", quote.FinalPrice)
	}
	if quote.Currency != "USD" {
		t.Errorf("expected currency USD, got %v", quote.Currency)
	}
}

/* =========================
   Test: Quote Invalid Quantity
   ========================= */

func TestQuoteInvalidQuantity(t *testing.T) {
	calc := featured.NewCalculator(featured.DefaultPricingConfig())

	for _, quantity := range []int{0, -1, -50} {
		_, err := calc.Quote(quantity)
		if !errors.Is(err, featured.ErrInvalidQuantity) {
			t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
		}
	}
}

/* =========================
   Test: Quote Custom Table
   ========================= */

func TestQuoteCustomTable(t *testing.T) {
	// Unsorted on purpose, the calculator must sort
	calc := featured.NewCalculator(featured.PricingConfig{
		BasePrice: 10,
		Currency:  "EUR",
		Tiers: []featured.DiscountTier{
			{MinQuantity: 2, DiscountPercent: 10},
			{MinQuantity: 5, DiscountPercent: 50},
		},
	})

	quote, err := calc.Quote(3)
	requireNoError(t, err)
	if quote.DiscountPercent != 10 || quote.FinalPrice != 27 {
		t.Errorf("quantity 3: expected 10%%/27, got %v%%/%v", quote.DiscountPercent, quote.FinalPrice)
	}

	quote, err = calc.Quote(7)
	requireNoError(t, err)
	if quote.DiscountPercent != 50 || quote.FinalPrice != 35 {
		t.Errorf("quantity 7: expected 50%%/35, got %v%%/%v", quote.DiscountPercent, quote.FinalPrice)
	}

	// Below every tier means no discount
	quote, err = calc.Quote(1)
	requireNoError(t, err)
	if quote.DiscountPercent != 0 || quote.FinalPrice != 10 {
		t.Errorf("quantity 1: expected 0%%/10, got %v%%/%v", quote.DiscountPercent, quote.FinalPrice)
	}
}

/* =========================
   Test: Parse Discount Tiers
   ========================= */

func TestParseDiscountTiers(t *testing.T) {
	tiers := featured.ParseDiscountTiers("30:20, 10:8,1:0")
	if len(tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(tiers))
	}
	if tiers[0].MinQuantity != 30 || tiers[0].DiscountPercent != 20 {
		t.Errorf("unexpected first tier: %+v", tiers[0])
	}

	for _, input := range []string{"", "  ", "abc", "10:", "10:200", "0:5", "10:5,bad"} {
		if got := featured.ParseDiscountTiers(input); got != nil {
			t.Errorf("input %q: expected nil, got %+v", input, got)
		}
	}
}
