package job

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles job database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new job repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new job posting
func (r *Repository) Create(ctx context.Context, j *Job) error {
	query := `
		INSERT INTO jobs (
			id, employer_id, title, description, status,
			is_featured, featured_until, featured_package_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		j.ID,
		j.EmployerID,
		j.Title,
		j.Description,
		j.Status,
		j.IsFeatured,
		j.FeaturedUntil,
		j.FeaturedPackageID,
		j.CreatedAt,
		j.UpdatedAt,
	)
	return err
}

// GetByID returns a job by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `
		SELECT id, employer_id, title, description, status,
			is_featured, featured_until, featured_package_id,
			created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	var j Job
	err := r.db.GetContext(ctx, &j, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetFeatureState returns only the feature fields of a job
func (r *Repository) GetFeatureState(ctx context.Context, id uuid.UUID) (*FeatureState, error) {
	query := `
		SELECT id, is_featured, featured_until, featured_package_id
		FROM jobs
		WHERE id = $1
	`
	var state FeatureState
	err := r.db.GetContext(ctx, &state, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SetFeaturedTx stamps the feature grant on a job within the caller's transaction.
// The is_featured predicate makes the stamp a claim: a job flagged by a
// concurrent transaction matches zero rows and the caller rolls back.
func (r *Repository) SetFeaturedTx(ctx context.Context, tx *sqlx.Tx, id, packageID uuid.UUID, until time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET is_featured = true, featured_until = $2, featured_package_id = $3, updated_at = NOW()
		WHERE id = $1 AND is_featured = false
	`, id, until, packageID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id); err != nil {
			return err
		}
		if !exists {
			return ErrJobNotFound
		}
		return ErrAlreadyFeatured
	}
	return nil
}

// ClearFeaturedTx revokes the feature grant within the caller's transaction
func (r *Repository) ClearFeaturedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET is_featured = false, featured_until = NULL, featured_package_id = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ListFeatured returns jobs with a live feature grant, soonest-ending first
func (r *Repository) ListFeatured(ctx context.Context) ([]Job, error) {
	query := `
		SELECT id, employer_id, title, description, status,
			is_featured, featured_until, featured_package_id,
			created_at, updated_at
		FROM jobs
		WHERE is_featured = true
		  AND status = 'open'
		  AND (featured_until IS NULL OR featured_until > NOW())
		ORDER BY featured_until ASC NULLS LAST, created_at DESC
	`
	jobs := make([]Job, 0)
	if err := r.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByEmployer returns an employer's jobs, newest first
func (r *Repository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Job, error) {
	query := `
		SELECT id, employer_id, title, description, status,
			is_featured, featured_until, featured_package_id,
			created_at, updated_at
		FROM jobs
		WHERE employer_id = $1
		ORDER BY created_at DESC
	`
	jobs := make([]Job, 0)
	if err := r.db.SelectContext(ctx, &jobs, query, employerID); err != nil {
		return nil, err
	}
	return jobs, nil
}
