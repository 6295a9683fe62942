package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers. Anything else coming out of the
// service layer is a wrapped store error.
var (
	// ErrInvalidCredentials covers both unknown email and bad password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up with an existing email
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrNotModerator is returned when a non-moderator attempts review
	ErrNotModerator = errors.New("caller is not a moderator")

	// ErrUpdateNotFound is returned when a pending update does not
	// exist, including when a concurrent approval claimed it first
	ErrUpdateNotFound = errors.New("pending update not found")

	// ErrUserNotFound is returned when a referenced user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError marks rejected caller input, such as a negative
// requested balance. It is surfaced directly to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
