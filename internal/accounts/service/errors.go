package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUnauthorized means the token is blank, unknown, expired, or could
	// not be checked.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorageUnavailable wraps a failure of a store the operation cannot
	// proceed without.
	ErrStorageUnavailable = errors.New("storage_unavailable")

	ErrDuplicateEmail    = errors.New("duplicate_email")
	ErrDuplicateUsername = errors.New("duplicate_username")
)

// ValidationError carries one human readable message per offending field.
// Duplicate email/username are reported as a ValidationError whose Cause is
// ErrDuplicateEmail or ErrDuplicateUsername.
type ValidationError struct {
	Fields map[string]string
	Cause  error
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Outcome records which writes of a best-effort dual write landed. What
// counts as primary and secondary is defined by the operation returning it.
type Outcome struct {
	Primary   bool
	Secondary bool
}

// Any reports whether at least one write succeeded.
func (o Outcome) Any() bool { return o.Primary || o.Secondary }
