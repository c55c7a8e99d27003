package featured

import (
	"sort"
	"strconv"
	"strings"
)

// DiscountTier is one row of the volume discount table
type DiscountTier struct {
	MinQuantity     int
	DiscountPercent float64
}

// PricingConfig is the injected pricing table. Loaded once at service
// construction so tests can supply alternate tables.
type PricingConfig struct {
	BasePrice float64
	Currency  string
	Tiers     []DiscountTier
}

// DefaultPricingConfig returns the production pricing table
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		BasePrice: 25,
		Currency:  "USD",
		Tiers: []DiscountTier{
			{MinQuantity: 30, DiscountPercent: 20},
			{MinQuantity: 20, DiscountPercent: 15},
			{MinQuantity: 15, DiscountPercent: 10},
			{MinQuantity: 10, DiscountPercent: 8},
			{MinQuantity: 5, DiscountPercent: 5},
			{MinQuantity: 1, DiscountPercent: 0},
		},
	}
}

// ParseDiscountTiers parses a "minQty:percent,minQty:percent" env string.
// Returns nil on empty or malformed input so callers fall back to defaults.
func ParseDiscountTiers(s string) []DiscountTier {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var tiers []DiscountTier
	for _, part := range strings.Split(s, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil
		}
		minQty, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil || minQty <= 0 {
			return nil
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil || percent < 0 || percent > 100 {
			return nil
		}
		tiers = append(tiers, DiscountTier{MinQuantity: minQty, DiscountPercent: percent})
	}
	return tiers
}

// Quote is a priced quantity of featured credits
type Quote struct {
	Quantity        int     `json:"quantity"`
	PricePerCredit  float64 `json:"price_per_credit"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	FinalPrice      float64 `json:"final_price"`
	Currency        string  `json:"currency"`
}

// Calculator prices credit quantities against the discount table.
// Pure, no side effects.
type Calculator struct {
	basePrice float64
	currency  string
	tiers     []DiscountTier
}

// NewCalculator creates a pricing calculator. Tiers are sorted by threshold
// descending so the highest satisfied threshold always wins.
func NewCalculator(cfg PricingConfig) *Calculator {
	tiers := make([]DiscountTier, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinQuantity > tiers[j].MinQuantity
	})

	return &Calculator{
		basePrice: cfg.BasePrice,
		currency:  cfg.Currency,
		tiers:     tiers,
	}
}

// Quote prices a quantity of credits
func (c *Calculator) Quote(quantity int) (*Quote, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var discount float64
	for _, tier := range c.tiers {
		if quantity >= tier.MinQuantity {
			discount = tier.DiscountPercent
			break
		}
	}

	originalPrice := float64(quantity) * c.basePrice
	discountAmount := originalPrice * discount / 100

	return &Quote{
		Quantity:        quantity,
		PricePerCredit:  c.basePrice,
		OriginalPrice:   originalPrice,
		DiscountPercent: discount,
		DiscountAmount:  discountAmount,
		FinalPrice:      originalPrice - discountAmount,
		Currency:        c.currency,
	}, nil
}
