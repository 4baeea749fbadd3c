package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or
	// is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrStandaloneList is returned when regeneration is invoked on a list
	// that has no meal plan. This is a precondition violation and never
	// partially applies.
	ErrStandaloneList = errors.New("standalone lists cannot be regenerated")

	// ErrShareExpired is returned when a share link has lapsed.
	ErrShareExpired = errors.New("share link expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError carries field-level detail for a rejected input. It is
// returned before any persistence change happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
