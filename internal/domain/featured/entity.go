package featured

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents package lifecycle state
type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// Tier labels derived from purchased quantity. Cosmetic, fixed at creation.
const (
	TierFree       = "free"
	TierStarter    = "starter"
	TierBusiness   = "business"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

type tierBreakpoint struct {
	minQuantity int
	label       string
}

// Evaluated top-down, most exclusive first. New tiers are additive rows.
var tierBreakpoints = []tierBreakpoint{
	{30, TierEnterprise},
	{15, TierPremium},
	{10, TierBusiness},
	{5, TierStarter},
	{1, TierStarter},
}

// TierForQuantity classifies a purchased quantity into a tier label
func TierForQuantity(quantity int) string {
	for _, bp := range tierBreakpoints {
		if quantity >= bp.minQuantity {
			return bp.label
		}
	}
	return TierFree
}

// Package is a purchased pool of featured-job credits.
// Invariants: remaining_credits == total_credits - used_credits and
// 0 <= used_credits <= total_credits, enforced by the repository's
// guarded claim/release statements.
type Package struct {
	ID        uuid.UUID     `db:"id"`
	UserID    uuid.UUID     `db:"user_id"`
	CompanyID uuid.NullUUID `db:"company_id"`

	TotalCredits     int `db:"total_credits"`
	UsedCredits      int `db:"used_credits"`
	RemainingCredits int `db:"remaining_credits"`

	// Pricing snapshot, immutable once created
	PricePerCredit  float64 `db:"price_per_credit"`
	OriginalPrice   float64 `db:"original_price"`
	DiscountPercent float64 `db:"discount_percent"`
	DiscountAmount  float64 `db:"discount_amount"`
	FinalPrice      float64 `db:"final_price"`
	Currency        string  `db:"currency"`

	Tier   string `db:"tier"`
	Status Status `db:"status"`

	ValidityDays int          `db:"validity_days"`
	StartDate    time.Time    `db:"start_date"`
	ExpiryDate   sql.NullTime `db:"expiry_date"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Ledger of jobs this package has granted a credit to, oldest first.
	// Loaded from the featured_grants table.
	GrantedJobIDs []uuid.UUID `db:"-"`
}

// IsExpired checks whether the package's expiry has passed
func (p *Package) IsExpired() bool {
	if !p.ExpiryDate.Valid {
		return false // no expiry = never expires
	}
	return time.Now().After(p.ExpiryDate.Time)
}

// IsConsumable returns true if a credit can be drawn from this package
func (p *Package) IsConsumable() bool {
	return p.Status == StatusActive && p.RemainingCredits > 0 && !p.IsExpired()
}

// DaysRemaining returns days until expiry, -1 for never-expiring packages
func (p *Package) DaysRemaining() int {
	if !p.ExpiryDate.Valid {
		return -1
	}
	remaining := time.Until(p.ExpiryDate.Time)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

// Grant is one ledger row: a credit drawn from a package for a job
type Grant struct {
	ID        uuid.UUID `db:"id"`
	PackageID uuid.UUID `db:"package_id"`
	JobID     uuid.UUID `db:"job_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Stats is a read-only rollup over a user's packages
type Stats struct {
	TotalPackages    int     `db:"total_packages" json:"total_packages"`
	ActivePackages   int     `db:"active_packages" json:"active_packages"`
	TotalCredits     int     `db:"total_credits" json:"total_credits"`
	UsedCredits      int     `db:"used_credits" json:"used_credits"`
	AvailableCredits int     `db:"available_credits" json:"available_credits"`
	TotalSpent       float64 `db:"total_spent" json:"total_spent"`
}
