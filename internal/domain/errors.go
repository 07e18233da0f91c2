package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the bearer token has no session record.
	// Surfaced as HTTP 401 with the response data stripped.
	ErrUnauthenticated = errors.New("user is not authenticated")

	// ErrNotFound covers absent profiles and graph nodes.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidUser is returned when a session-holding caller no longer
	// resolves to a live profile (e.g. logout after account deletion).
	ErrInvalidUser = errors.New("invalid user")

	// ErrSectionNotFound is returned for an unrecognized recommendation
	// section tag.
	ErrSectionNotFound = errors.New("section not found")
)

// DuplicateKeyError reports which unique field collided on profile creation.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// ValidationError carries a stable client error code alongside the
// human-readable reason.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with the given client code.
func NewValidationError(code, reason string) *ValidationError {
	return &ValidationError{Code: code, Reason: reason}
}
