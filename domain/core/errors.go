package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrBatchNotFound = fmt.Errorf("%w: batch", ErrNotFound)

	// Input errors
	ErrEmptyBatch = errors.New("cannot analyze an empty batch")

	// Configuration errors
	ErrInvalidRules = errors.New("invalid draw rules")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewRulesError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidRules, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEmptyBatchError(err error) bool {
	return errors.Is(err, ErrEmptyBatch)
}

func IsRulesError(err error) bool {
	return errors.Is(err, ErrInvalidRules)
}
