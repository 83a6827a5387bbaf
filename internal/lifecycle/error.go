package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrPartialFailure signals that the export record was created but a
	// later step did not complete. The export is real; the caller should
	// retry the remaining steps, not the whole conversion.
	ErrPartialFailure = errors.New("conversion partially completed")

	ErrNotOwner = errors.New("caller does not own this resource")
)

// PartialFailureError carries the created export's id so the caller can
// drive the idempotent retry.
type PartialFailureError struct {
	ExportID string
	Step     string
	Err      error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("conversion partially completed: step %s failed for export %s: %v", e.Step, e.ExportID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func (e *PartialFailureError) Is(target error) bool { return target == ErrPartialFailure }
