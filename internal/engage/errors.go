package engage

import (
	"errors"
	"fmt"
)

// MutationConflictError reports a reconciliation result arriving for a
// mutation that a newer local toggle has already superseded. The result
// is discarded, not surfaced to the user; callers log it and move on.
type MutationConflictError struct {
	VideoID    string
	MutationID string
}

// Error implements the error interface.
func (e *MutationConflictError) Error() string {
	return fmt.Sprintf("superseded mutation %s for video %s", e.MutationID, e.VideoID)
}

// IsMutationConflict returns true if the error is a superseded-mutation
// conflict. Uses errors.As to handle wrapped errors.
func IsMutationConflict(err error) bool {
	var me *MutationConflictError
	return errors.As(err, &me)
}
