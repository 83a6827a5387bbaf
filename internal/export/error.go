package export

import "errors"

// PgUniqueViolation is the postgres error code for unique constraint hits.
const PgUniqueViolation = "23505"

var (
	ErrExportNotFound   = errors.New("factory export not found")
	ErrInvalidWeight    = errors.New("weight must be positive and within the unit's quantity")
	ErrUnitNotWaste     = errors.New("produce unit is not unsold or spoiled")
	ErrUnknownCategory  = errors.New("unknown export category")
	ErrInvalidAdvance   = errors.New("export status can only advance forward")
	ErrAlreadyProcessed = errors.New("export is immutable once processed")
	ErrAlreadyConverted = errors.New("produce unit already has a factory export")
)
