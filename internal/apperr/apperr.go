// Package apperr defines the caller-facing failure taxonomy shared by the
// stores, services and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, post or edge does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert conflicts with a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyLiked is returned when a user likes the same post twice.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrSelfReference is returned for a self-follow attempt.
	ErrSelfReference = errors.New("cannot follow yourself")
	// ErrInvalidInput is returned for missing, oversized or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated is returned when a mutating call has no caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStorage wraps failures of the persistence layer.
	ErrStorage = errors.New("storage error")
)

// NotFound returns ErrNotFound prefixed with the kind of entity, e.g. "post not found".
func NotFound(kind string) error {
	return fmt.Errorf("%s %w", kind, ErrNotFound)
}

// Invalid returns ErrInvalidInput annotated with the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

// Storage wraps a persistence failure so that callers can match ErrStorage
// while the underlying cause stays reachable through errors.As.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrStorage, op, err)
}

// IsConflict reports whether err is a uniqueness conflict of either flavour.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrAlreadyLiked)
}
