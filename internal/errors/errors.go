// Package errors defines the hard-failure error types of the compiler
// core: programmer and caller contract violations that abort an operation
// immediately. Content-level problems are never errors; they are collected
// as diagnostics.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrNotFound          = errors.New("not found")
)

// InvalidIdentifier reports an identifier that does not match its
// required pattern.
func InvalidIdentifier(kind, value string) error {
	return fmt.Errorf("%w: %s '%s'", ErrInvalidIdentifier, kind, value)
}

// DuplicateEntry reports re-registration of an existing registry key.
func DuplicateEntry(kind, key string) error {
	return fmt.Errorf("%w: %s '%s' is already registered", ErrDuplicateEntry, kind, key)
}

// NotFound reports an operation on a registry key that does not exist.
func NotFound(kind, key string) error {
	return fmt.Errorf("%w: %s '%s'", ErrNotFound, kind, key)
}
