package featured

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

const packageColumns = `id, user_id, company_id, total_credits, used_credits, remaining_credits,
	price_per_credit, original_price, discount_percent, discount_amount, final_price,
	currency, tier, status, validity_days, start_date, expiry_date, created_at, updated_at`

// Repository handles featured package storage
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates featured repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new package
func (r *Repository) Create(ctx context.Context, p *Package) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO featured_packages (
			id, user_id, company_id, total_credits, used_credits, remaining_credits,
			price_per_credit, original_price, discount_percent, discount_amount, final_price,
			currency, tier, status, validity_days, start_date, expiry_date, created_at, updated_at
		) VALUES (
			:id, :user_id, :company_id, :total_credits, :used_credits, :remaining_credits,
			:price_per_credit, :original_price, :discount_percent, :discount_amount, :final_price,
			:currency, :tier, :status, :validity_days, :start_date, :expiry_date, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// GetByID fetches a package with its grant ledger
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Package
	query := `SELECT ` + packageColumns + ` FROM featured_packages WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	jobIDs, err := r.ListGrantJobIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	p.GrantedJobIDs = jobIDs

	return &p, nil
}

// ListByUser returns all packages a user has ever purchased, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Package, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var packages []Package
	query := `SELECT ` + packageColumns + `
		FROM featured_packages
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`
	if err := r.db.SelectContext(ctx, &packages, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// ListConsumable returns packages a credit can be drawn from, ordered so the
// one closest to expiry is spent first. Never-expiring packages sort last and
// ties break on id for a stable order.
func (r *Repository) ListConsumable(ctx context.Context, userID uuid.UUID) ([]Package, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var packages []Package
	query := `SELECT ` + packageColumns + `
		FROM featured_packages
		WHERE user_id = $1
		  AND status = 'active'
		  AND remaining_credits > 0
		  AND (expiry_date IS NULL OR expiry_date > NOW())
		ORDER BY expiry_date ASC NULLS LAST, id ASC`
	if err := r.db.SelectContext(ctx, &packages, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list consumable packages: %w", err)
	}
	return packages, nil
}

// ClaimCreditTx atomically draws one credit from a package. The WHERE clause
// re-validates eligibility at commit time, so a package exhausted or expired
// between candidate selection and this call matches zero rows and returns
// ErrConcurrentModification.
func (r *Repository) ClaimCreditTx(ctx context.Context, tx *sqlx.Tx, packageID uuid.UUID) (*Package, error) {
	query := `
		UPDATE featured_packages
		SET used_credits = used_credits + 1,
		    remaining_credits = remaining_credits - 1,
		    status = CASE WHEN remaining_credits - 1 = 0 THEN 'used' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1
		  AND status = 'active'
		  AND remaining_credits > 0
		  AND (expiry_date IS NULL OR expiry_date > NOW())
		RETURNING ` + packageColumns

	var p Package
	if err := tx.GetContext(ctx, &p, query, packageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to claim credit: %w", err)
	}
	return &p, nil
}

// ReleaseCreditTx returns one credit to a package. A fully consumed package
// flips back to active; an expired one keeps its status so the restored
// credit can never be spent again.
func (r *Repository) ReleaseCreditTx(ctx context.Context, tx *sqlx.Tx, packageID uuid.UUID) (*Package, error) {
	query := `
		UPDATE featured_packages
		SET used_credits = used_credits - 1,
		    remaining_credits = remaining_credits + 1,
		    status = CASE WHEN status = 'used' THEN 'active' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND used_credits > 0
		RETURNING ` + packageColumns

	var p Package
	if err := tx.GetContext(ctx, &p, query, packageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to release credit: %w", err)
	}
	return &p, nil
}

// InsertGrantTx appends a ledger row for a drawn credit
func (r *Repository) InsertGrantTx(ctx context.Context, tx *sqlx.Tx, packageID, jobID uuid.UUID) (*Grant, error) {
	g := &Grant{
		ID:        uuid.New(),
		PackageID: packageID,
		JobID:     jobID,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO featured_grants (id, package_id, job_id, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, query, g.ID, g.PackageID, g.JobID, g.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert grant: %w", err)
	}
	return g, nil
}

// DeleteGrantTx removes the oldest ledger row for the package/job pair
func (r *Repository) DeleteGrantTx(ctx context.Context, tx *sqlx.Tx, packageID, jobID uuid.UUID) error {
	query := `
		DELETE FROM featured_grants
		WHERE id = (
			SELECT id FROM featured_grants
			WHERE package_id = $1 AND job_id = $2
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		)`
	if _, err := tx.ExecContext(ctx, query, packageID, jobID); err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}
	return nil
}

// ListGrantJobIDs returns job ids granted from a package, oldest first
func (r *Repository) ListGrantJobIDs(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var jobIDs []uuid.UUID
	query := `
		SELECT job_id FROM featured_grants
		WHERE package_id = $1
		ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &jobIDs, query, packageID); err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	return jobIDs, nil
}

// ListExpiredActive returns active packages whose expiry has passed
func (r *Repository) ListExpiredActive(ctx context.Context) ([]Package, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var packages []Package
	query := `SELECT ` + packageColumns + `
		FROM featured_packages
		WHERE status = 'active'
		  AND expiry_date IS NOT NULL
		  AND expiry_date <= NOW()
		ORDER BY expiry_date ASC, id ASC`
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("failed to list expired packages: %w", err)
	}
	return packages, nil
}

// MarkExpired transitions an active package to expired. Returns false when
// another sweeper already claimed it.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE featured_packages
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status = 'active'`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark package expired: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check expire result: %w", err)
	}
	return rows > 0, nil
}

// GetStats aggregates a user's packages into a rollup
func (r *Repository) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var stats Stats
	query := `
		SELECT
			COUNT(*) AS total_packages,
			COUNT(*) FILTER (WHERE status = 'active') AS active_packages,
			COALESCE(SUM(total_credits), 0) AS total_credits,
			COALESCE(SUM(used_credits), 0) AS used_credits,
			COALESCE(SUM(remaining_credits) FILTER (WHERE status = 'active'), 0) AS available_credits,
			COALESCE(SUM(final_price), 0) AS total_spent
		FROM featured_packages
		WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}
