// Package errors defines the error types shared across the bot.
// Validation and access errors are user-facing; infrastructure errors
// (database, cache, resolution) are surfaced as opaque diagnostics.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError: rejected user input (unknown profession, level out of
// range). No state mutation happened.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// AccessDeniedError: the invoking member lacks the role required to edit
// another member's professions.
type AccessDeniedError struct {
	Reason string
}

func (e AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "access denied"
	}
	return e.Reason
}

// DatabaseError: a persistence operation failed.
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// CacheError: a Valkey operation failed. Callers treat the cache as
// best-effort and fall back to direct resolution.
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e CacheError) Unwrap() error { return e.Err }

// ResolutionError: a recorded channel/message/member could not be resolved
// through the transport.
type ResolutionError struct {
	Kind string // "channel", "message", "member"
	ID   string
	Err  error
}

func (e ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %s failed id=%s", e.Kind, e.ID)
	}
	return fmt.Sprintf("resolve %s failed id=%s: %v", e.Kind, e.ID, e.Err)
}

func (e ResolutionError) Unwrap() error { return e.Err }

// userFacingTypes: errors that carry a message meant for the invoking user
// verbatim, as opposed to infrastructure failures reported opaquely.
var userFacingTypes = []func() any{
	func() any { return new(ValidationError) },
	func() any { return new(AccessDeniedError) },
}

// IsUserFacing reports whether err should be shown to the user as-is.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range userFacingTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}
