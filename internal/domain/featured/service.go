package featured

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// claimAttempts bounds re-list passes when every candidate conflicts
const claimAttempts = 3

const statsCacheTTL = 5 * time.Minute

// ResourceState is the feature state of a target job
type ResourceState struct {
	ID                uuid.UUID
	IsFeatured        bool
	FeaturedPackageID uuid.NullUUID
}

// ResourceStore is the engine's view of the jobs it features. SetFeaturedTx
// and ClearFeaturedTx run inside the credit transaction so the credit move
// and the job flag commit or roll back together.
type ResourceStore interface {
	GetFeatureState(ctx context.Context, id uuid.UUID) (*ResourceState, error)
	SetFeaturedTx(ctx context.Context, tx *sqlx.Tx, id, packageID uuid.UUID, until time.Time) error
	ClearFeaturedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

// GrantResult is the outcome of a successful credit use
type GrantResult struct {
	Package       *Package
	JobID         uuid.UUID
	FeaturedUntil time.Time
}

// Config holds service tunables
type Config struct {
	// DefaultGrantDays bounds the feature window for credits drawn from
	// never-expiring packages
	DefaultGrantDays int
}

// Service implements featured credit business logic
type Service struct {
	db        *sqlx.DB
	repo      *Repository
	resources ResourceStore
	calc      *Calculator
	cfg       Config
	redis     *redis.Client // optional, stats cache
}

// NewService creates featured service
func NewService(db *sqlx.DB, repo *Repository, resources ResourceStore, pricing PricingConfig, cfg Config, redisClient *redis.Client) *Service {
	if cfg.DefaultGrantDays <= 0 {
		cfg.DefaultGrantDays = 30
	}

	return &Service{
		db:        db,
		repo:      repo,
		resources: resources,
		calc:      NewCalculator(pricing),
		cfg:       cfg,
		redis:     redisClient,
	}
}

// CalculatePrice quotes a credit quantity without persisting anything
func (s *Service) CalculatePrice(quantity int) (*Quote, error) {
	return s.calc.Quote(quantity)
}

// CreatePackage purchases a credit package. The quote is snapshotted onto the
// row so later pricing changes never touch sold packages. validityDays <= 0
// means the package never expires.
func (s *Service) CreatePackage(ctx context.Context, userID uuid.UUID, companyID uuid.NullUUID, quantity, validityDays int) (*Package, error) {
	quote, err := s.calc.Quote(quantity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Package{
		ID:               uuid.New(),
		UserID:           userID,
		CompanyID:        companyID,
		TotalCredits:     quantity,
		UsedCredits:      0,
		RemainingCredits: quantity,
		PricePerCredit:   quote.PricePerCredit,
		OriginalPrice:    quote.OriginalPrice,
		DiscountPercent:  quote.DiscountPercent,
		DiscountAmount:   quote.DiscountAmount,
		FinalPrice:       quote.FinalPrice,
		Currency:         quote.Currency,
		Tier:             TierForQuantity(quantity),
		Status:           StatusActive,
		ValidityDays:     validityDays,
		StartDate:        now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if validityDays > 0 {
		p.ExpiryDate = sql.NullTime{Time: now.AddDate(0, 0, validityDays), Valid: true}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, userID)

	log.Info().
		Str("package_id", p.ID.String()).
		Str("user_id", userID.String()).
		Int("credits", quantity).
		Str("tier", p.Tier).
		Msg("Featured package created")

	return p, nil
}

// GetPackage fetches a package with its grant ledger
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActivePackages returns packages a credit can currently be drawn from,
// soonest-expiring first
func (s *Service) ListActivePackages(ctx context.Context, userID uuid.UUID) ([]Package, error) {
	return s.repo.ListConsumable(ctx, userID)
}

// ListPackages returns a user's full purchase history
func (s *Service) ListPackages(ctx context.Context, userID uuid.UUID) ([]Package, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UseCredit draws one credit from the user's soonest-expiring eligible
// package and features the job with it. On claim conflict the next candidate
// is tried; the candidate list is refreshed up to claimAttempts times before
// giving up.
func (s *Service) UseCredit(ctx context.Context, userID, jobID uuid.UUID) (*GrantResult, error) {
	state, err := s.resources.GetFeatureState(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if state.IsFeatured {
		return nil, ErrAlreadyFeatured
	}

	for attempt := 0; attempt < claimAttempts; attempt++ {
		candidates, err := s.repo.ListConsumable(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, ErrNoAvailableCredits
		}

		for i := range candidates {
			result, err := s.claimFrom(ctx, candidates[i].ID, jobID)
			if errors.Is(err, ErrConcurrentModification) {
				continue // drained or expired under us, try the next one
			}
			if err != nil {
				return nil, err
			}

			s.invalidateStats(ctx, userID)

			log.Info().
				Str("package_id", result.Package.ID.String()).
				Str("job_id", jobID.String()).
				Int("remaining", result.Package.RemainingCredits).
				Msg("Featured credit used")

			return result, nil
		}
	}

	return nil, ErrConcurrentModification
}

// claimFrom runs one claim transaction against a single candidate package
func (s *Service) claimFrom(ctx context.Context, packageID, jobID uuid.UUID) (*GrantResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pkg, err := s.repo.ClaimCreditTx(ctx, tx, packageID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.InsertGrantTx(ctx, tx, pkg.ID, jobID); err != nil {
		return nil, err
	}

	// Grants ride the package's own expiry; the configured per-grant
	// window applies only to never-expiring packages
	until := time.Now().AddDate(0, 0, s.cfg.DefaultGrantDays)
	if pkg.ExpiryDate.Valid {
		until = pkg.ExpiryDate.Time
	}

	if err := s.resources.SetFeaturedTx(ctx, tx, jobID, pkg.ID, until); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &GrantResult{Package: pkg, JobID: jobID, FeaturedUntil: until}, nil
}

// Deactivate removes a job's feature flag and returns the credit to its
// source package. Idempotent: a job without an active grant returns
// ErrNotFeatured, which callers treat as a no-op.
func (s *Service) Deactivate(ctx context.Context, jobID uuid.UUID) error {
	state, err := s.resources.GetFeatureState(ctx, jobID)
	if err != nil {
		return err
	}
	if !state.IsFeatured {
		return ErrNotFeatured
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID uuid.UUID
	if state.FeaturedPackageID.Valid {
		packageID := state.FeaturedPackageID.UUID

		pkg, err := s.repo.ReleaseCreditTx(ctx, tx, packageID)
		if err != nil && !errors.Is(err, ErrPackageNotFound) {
			return err
		}
		if pkg != nil {
			ownerID = pkg.UserID
		}

		if err := s.repo.DeleteGrantTx(ctx, tx, packageID, jobID); err != nil {
			return err
		}
	}

	if err := s.resources.ClearFeaturedTx(ctx, tx, jobID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.invalidateStats(ctx, ownerID)

	log.Info().
		Str("job_id", jobID.String()).
		Msg("Featured grant deactivated")

	return nil
}

// SweepExpired expires overdue packages and unfeatures every job still
// holding a grant from them. Returns the number of packages expired.
// Each package is processed independently so one failure never blocks
// the rest of the sweep.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpiredActive(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		pkg := &expired[i]

		marked, err := s.repo.MarkExpired(ctx, pkg.ID)
		if err != nil {
			log.Error().Err(err).
				Str("package_id", pkg.ID.String()).
				Msg("Failed to expire package")
			continue
		}
		if !marked {
			continue // another sweeper got here first
		}

		jobIDs, err := s.repo.ListGrantJobIDs(ctx, pkg.ID)
		if err != nil {
			log.Error().Err(err).
				Str("package_id", pkg.ID.String()).
				Msg("Failed to list grants of expired package")
		}
		for _, jobID := range jobIDs {
			err := s.Deactivate(ctx, jobID)
			if err != nil && !errors.Is(err, ErrNotFeatured) && !errors.Is(err, ErrResourceNotFound) {
				log.Warn().Err(err).
					Str("package_id", pkg.ID.String()).
					Str("job_id", jobID.String()).
					Msg("Failed to unfeature job of expired package")
			}
		}

		s.invalidateStats(ctx, pkg.UserID)
		count++
	}

	return count, nil
}

// GetStats returns a user's credit rollup, served from cache when possible
func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	key := statsCacheKey(userID)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var stats Stats
			if json.Unmarshal(data, &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Failed to cache featured stats")
			}
		}
	}

	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil || userID == uuid.Nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate featured stats cache")
	}
}

func statsCacheKey(userID uuid.UUID) string {
	return "featured:stats:" + userID.String()
}
