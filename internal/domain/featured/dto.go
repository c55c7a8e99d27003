package featured

import (
	"time"

	"github.com/google/uuid"
)

// CreatePackageRequest is the purchase payload
type CreatePackageRequest struct {
	Quantity     int    `json:"quantity" validate:"required,gte=1,lte=1000"`
	ValidityDays int    `json:"validity_days" validate:"gte=0,lte=3650"`
	CompanyID    string `json:"company_id" validate:"omitempty,uuid"`
}

// PackageResponse is the API representation of a package
type PackageResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`

	TotalCredits     int `json:"total_credits"`
	UsedCredits      int `json:"used_credits"`
	RemainingCredits int `json:"remaining_credits"`

	PricePerCredit  float64 `json:"price_per_credit"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	FinalPrice      float64 `json:"final_price"`
	Currency        string  `json:"currency"`

	Tier   string `json:"tier"`
	Status Status `json:"status"`

	ValidityDays  int        `json:"validity_days"`
	StartDate     time.Time  `json:"start_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	DaysRemaining int        `json:"days_remaining"`

	GrantedJobIDs []uuid.UUID `json:"granted_job_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PackageResponseFromEntity converts entity to response
func PackageResponseFromEntity(p *Package) *PackageResponse {
	resp := &PackageResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		TotalCredits:     p.TotalCredits,
		UsedCredits:      p.UsedCredits,
		RemainingCredits: p.RemainingCredits,
		PricePerCredit:   p.PricePerCredit,
		OriginalPrice:    p.OriginalPrice,
		DiscountPercent:  p.DiscountPercent,
		DiscountAmount:   p.DiscountAmount,
		FinalPrice:       p.FinalPrice,
		Currency:         p.Currency,
		Tier:             p.Tier,
		Status:           p.Status,
		ValidityDays:     p.ValidityDays,
		StartDate:        p.StartDate,
		DaysRemaining:    p.DaysRemaining(),
		GrantedJobIDs:    p.GrantedJobIDs,
		CreatedAt:        p.CreatedAt,
	}
	if p.CompanyID.Valid {
		companyID := p.CompanyID.UUID
		resp.CompanyID = &companyID
	}
	if p.ExpiryDate.Valid {
		expiry := p.ExpiryDate.Time
		resp.ExpiryDate = &expiry
	}
	return resp
}

// UseCreditResponse is returned after featuring a job
type UseCreditResponse struct {
	JobID         uuid.UUID        `json:"job_id"`
	FeaturedUntil time.Time        `json:"featured_until"`
	Package       *PackageResponse `json:"package"`
}

// DeactivateResponse is returned after unfeaturing a job
type DeactivateResponse struct {
	JobID    uuid.UUID `json:"job_id"`
	Released bool      `json:"released"`
	Message  string    `json:"message,omitempty"`
}
