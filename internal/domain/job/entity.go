package job

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents job posting status
type Status string

const (
	StatusDraft  Status = "draft"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Job represents a job posting. The featured engine owns only the three
// feature fields; everything else belongs to the posting itself.
type Job struct {
	ID          uuid.UUID      `db:"id"`
	EmployerID  uuid.UUID      `db:"employer_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      Status         `db:"status"`

	// Feature grant state, written only by the featured credit engine
	IsFeatured        bool          `db:"is_featured"`
	FeaturedUntil     sql.NullTime  `db:"featured_until"`
	FeaturedPackageID uuid.NullUUID `db:"featured_package_id"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FeatureState is the slice of a job the credit engine reads
type FeatureState struct {
	ID                uuid.UUID     `db:"id"`
	IsFeatured        bool          `db:"is_featured"`
	FeaturedUntil     sql.NullTime  `db:"featured_until"`
	FeaturedPackageID uuid.NullUUID `db:"featured_package_id"`
}

// FeatureActive returns true if the job currently holds a live feature grant
func (j *Job) FeatureActive() bool {
	return featureActive(j.IsFeatured, j.FeaturedUntil)
}

// FeatureActive returns true if the job currently holds a live feature grant
func (s *FeatureState) FeatureActive() bool {
	return featureActive(s.IsFeatured, s.FeaturedUntil)
}

func featureActive(flagged bool, until sql.NullTime) bool {
	if !flagged {
		return false
	}
	if !until.Valid {
		return true
	}
	return time.Now().Before(until.Time)
}
