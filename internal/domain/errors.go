package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound means an id did not resolve to a live record.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is the declined outcome of a sale. It is a normal
	// business result, not an infrastructure failure.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidArgument rejects a sale quantity below one.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError holds field-level messages keyed by the form field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
