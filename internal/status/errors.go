// internal/status/errors.go
package status

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the source does not satisfy the Source contract.
	ErrInvalidInput = errors.New("status: invalid input")

	// ErrSourceUnavailable means an accessor on the source failed.
	ErrSourceUnavailable = errors.New("status: source unavailable")
)

// SourceError wraps a failed accessor read.
// It matches ErrSourceUnavailable and still unwraps to the original error.
type SourceError struct {
	Field string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("status: source unavailable: read %s: %v", e.Field, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// sourceErr returns err unchanged if it already is a SourceError.
func sourceErr(field string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Field: field, Err: err}
}
