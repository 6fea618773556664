package application

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks failures of the durable store. A submission is
// only accepted once Append succeeds, so callers must surface this as a
// server-side failure rather than pretend the lead was recorded.
var ErrStorageUnavailable = errors.New("submission storage unavailable")

// ValidationError reports a client-caused input problem on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func wrapStorageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
