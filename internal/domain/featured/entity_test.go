package featured_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hirelane/hirelane-api/internal/domain/featured"
)

/* =========================
   Test: Tier For Quantity
   ========================= */

func TestTierForQuantity(t *testing.T) {
	cases := []struct {
		quantity int
		tier     string
	}{
		{0, featured.TierFree},
		{-1, featured.TierFree},
		{1, featured.TierStarter},
		{4, featured.TierStarter},
		{5, featured.TierStarter},
		{9, featured.TierStarter},
		{10, featured.TierBusiness},
		{14, featured.TierBusiness},
		{15, featured.TierPremium},
		{29, featured.TierPremium},
		{30, featured.TierEnterprise},
		{500, featured.TierEnterprise},
	}

	for _, tc := range cases {
		if got := featured.TierForQuantity(tc.quantity); got != tc.tier {
			t.Errorf("quantity %d: expected %q, got %q", tc.quantity, tc.tier, got)
		}
	}
}

/* =========================
   Test: Package Consumability
   ========================= */

func TestPackageConsumability(t *testing.T) {
	future := sql.NullTime{Time: time.Now().Add(24 * time.Hour), Valid: true}
	past := sql.NullTime{Time: time.Now().Add(-24 * time.Hour), Valid: true}

	cases := []struct {
		name       string
		pkg        featured.Package
		consumable bool
	}{
		{"active with credits", featured.Package{Status: featured.StatusActive, RemainingCredits: 3, ExpiryDate: future}, true},
		{"active never expiring", featured.Package{Status: featured.StatusActive, RemainingCredits: 1}, true},
		{"drained", featured.Package{Status: featured.StatusUsed, RemainingCredits: 0, ExpiryDate: future}, false},
		{"expired status", featured.Package{Status: featured.StatusExpired, RemainingCredits: 3, ExpiryDate: future}, false},
		{"past expiry", featured.Package{Status: featured.StatusActive, RemainingCredits: 3, ExpiryDate: past}, false},
		{"zero credits active", featured.Package{Status: featured.StatusActive, RemainingCredits: 0, ExpiryDate: future}, false},
	}

	for _, tc := range cases {
		if got := tc.pkg.IsConsumable(); got != tc.consumable {
			t.Errorf("%s: expected consumable=%v, got %v", tc.name, tc.consumable, got)
		}
	}
}

/* =========================
   Test: Days Remaining
   ========================= */

func TestDaysRemaining(t *testing.T) {
	never := featured.Package{}
	if got := never.DaysRemaining(); got != -1 {
		t.Errorf("never-expiring: expected -1, got %d", got)
	}

	overdue := featured.Package{ExpiryDate: sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true}}
	if got := overdue.DaysRemaining(); got != 0 {
		t.Errorf("overdue: expected 0, got %d", got)
	}

	tenDays := featured.Package{ExpiryDate: sql.NullTime{Time: time.Now().Add(10*24*time.Hour + time.Minute), Valid: true}}
	if got := tenDays.DaysRemaining(); got != 10 {
		t.Errorf("ten days out: expected 10, got %d", got)
	}
}
