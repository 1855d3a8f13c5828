// Package errors provides standardized domain errors for business logic.
package errors

import (
	"errors"
	"fmt"
)

// Standard error kinds used across the whole database engine. Every
// package-specific error wraps one of these so callers can test the kind
// with errors.Is without depending on a specific package's error variables.
var (
	// ErrInvalidInput indicates a malformed caller argument (name collision,
	// missing required value, bad property syntax).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates an unknown ID, name, or version.
	ErrNotFound = errors.New("not found")

	// ErrInvalidData indicates a length or format violation while parsing
	// on-disk bytes, or a duplicate key encountered during load.
	ErrInvalidData = errors.New("invalid data")

	// ErrIntegrity indicates an HMAC or outer hash mismatch.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrUnsupported indicates an unknown algorithm tag or a mutating
	// operation attempted on a read-only database.
	ErrUnsupported = errors.New("unsupported")

	// ErrIO indicates a local or remote I/O failure.
	ErrIO = errors.New("io error")

	// ErrAlreadyExists indicates an attempt to load a region twice, or to
	// register a duplicate fixed header ID.
	ErrAlreadyExists = errors.New("already exists")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
