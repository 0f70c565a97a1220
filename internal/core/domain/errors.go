package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrNoMatchingUser is returned by activation when no live user has both
	// the given email and username.
	ErrNoMatchingUser = fmt.Errorf("%w with this email and username", ErrUserNotFound)

	ErrInvalidReference = errors.New("role does not exist or has been deleted")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrUserNotFound)
}

// DuplicateKeyError is returned when a unique index rejects a write.
// Field is empty when the violated index could not be identified.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	return e.Field + " already exists"
}

// MissingFieldsError lists request fields that are required but absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return strings.Join(e.Fields, " and ") + " are required"
}

// AlreadyActivatedError is a soft failure: the account exists and is active.
// User carries the current record so callers can return it.
type AlreadyActivatedError struct {
	User *PopulatedUser
}

func (e *AlreadyActivatedError) Error() string {
	return "account has already been activated"
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
