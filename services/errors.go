package services

import (
	"errors"
	"strings"
)

var (
	// ErrPostNotFound signals that the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrDuplicateSlug signals a slug uniqueness violation on create.
	ErrDuplicateSlug = errors.New("slug already exists")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field violation and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasErrors reports whether any violations were recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}
