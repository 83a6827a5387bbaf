package impact

import "errors"

var (
	ErrProfileNotFound = errors.New("producer profile not found")
	ErrAlreadyApplied  = errors.New("export already applied to profile")
)

// PgUniqueViolation is the postgres error code used to detect a repeated
// application of the same export.
const PgUniqueViolation = "23505"
