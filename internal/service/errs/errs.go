// Package errs holds the error taxonomy shared by the service layer and the transports.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input is malformed or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means the request is valid but the current state forbids it.
	ErrConflict = errors.New("conflict")
)

// NotFound wraps ErrNotFound with a message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validation wraps ErrValidation with a message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a message.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// IsDomain reports whether err belongs to the taxonomy above.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}
