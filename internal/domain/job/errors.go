package job

import "errors"

var (
	// ErrAlreadyFeatured is returned when stamping a job that is already flagged
	ErrAlreadyFeatured = errors.New("job is already featured")

	// ErrJobNotFound is returned when the job doesn't exist
	ErrJobNotFound = errors.New("job not found")

	// ErrNotOwner is returned when a user acts on somebody else's job
	ErrNotOwner = errors.New("job belongs to another employer")
)
