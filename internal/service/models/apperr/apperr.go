package apperr

import (
	"errors"
	"fmt"
)

// Domain error kinds. The transport layer translates these to status codes;
// anything not matching one of them is treated as an infrastructure failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrProductNotFound = errors.New("product not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
)

// Validationf builds a validation error with a human-readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf builds a conflict error, e.g. for uniqueness violations.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
