package job

import (
	"time"

	"github.com/google/uuid"
)

// CreateJobRequest is the payload for creating a posting
type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"job_status"`
}

// JobResponse is the API representation of a job
type JobResponse struct {
	ID                uuid.UUID  `json:"id"`
	EmployerID        uuid.UUID  `json:"employer_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	IsFeatured        bool       `json:"is_featured"`
	FeaturedUntil     *time.Time `json:"featured_until,omitempty"`
	FeaturedPackageID *uuid.UUID `json:"featured_package_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// JobResponseFromEntity converts entity to response DTO
func JobResponseFromEntity(j *Job) *JobResponse {
	resp := &JobResponse{
		ID:         j.ID,
		EmployerID: j.EmployerID,
		Title:      j.Title,
		Status:     string(j.Status),
		IsFeatured: j.IsFeatured,
		CreatedAt:  j.CreatedAt,
	}
	if j.Description.Valid {
		resp.Description = j.Description.String
	}
	if j.FeaturedUntil.Valid {
		t := j.FeaturedUntil.Time
		resp.FeaturedUntil = &t
	}
	if j.FeaturedPackageID.Valid {
		id := j.FeaturedPackageID.UUID
		resp.FeaturedPackageID = &id
	}
	return resp
}
