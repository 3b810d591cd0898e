package store

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is returned when input is rejected before any mutation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed load or save of the persisted state.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SchemaError lists every violation found when validating a stored document.
type SchemaError struct {
	Violations []Violation
}

// Violation is one schema failure at a JSON path.
type Violation struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
