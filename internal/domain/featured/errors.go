package featured

import "errors"

var (
	// ErrInvalidQuantity is returned when quantity is <= 0
	ErrInvalidQuantity = errors.New("invalid quantity: must be greater than 0")

	// ErrNoAvailableCredits is returned when no eligible package has credit left
	ErrNoAvailableCredits = errors.New("no available featured credits")

	// ErrNotFeatured is returned when deactivating a job with no active grant.
	// Treated as a benign no-op by callers.
	ErrNotFeatured = errors.New("job is not featured")

	// ErrAlreadyFeatured is returned when featuring a job that already holds a grant
	ErrAlreadyFeatured = errors.New("job already has an active feature grant")

	// ErrPackageNotFound is returned when the package doesn't exist
	ErrPackageNotFound = errors.New("package not found")

	// ErrResourceNotFound is returned when the target job doesn't exist
	ErrResourceNotFound = errors.New("resource not found")

	// ErrConcurrentModification is returned after bounded claim retries all conflict
	ErrConcurrentModification = errors.New("package modified concurrently, retry")
)
