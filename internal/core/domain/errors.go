package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned for invalid credentials.
	ErrAuth = errors.New("invalid credentials")
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
	// ErrForbidden is returned when the caller's role may not act on a record.
	ErrForbidden = errors.New("forbidden")
)

// NotFound wraps ErrNotFound with the kind and id that were looked up.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Invalid wraps ErrValidation with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
