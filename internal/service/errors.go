package service

import (
	"fmt"
	"strings"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// FieldError names one field that failed validation and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full set of violations for one request so
// callers see every offending field at once. It unwraps to
// domain.ErrValidation for errors.Is checks.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Unwrap returns the validation sentinel so errors.Is still matches.
func (e *ValidationError) Unwrap() error {
	return domain.ErrValidation
}

// NewValidationError creates a ValidationError with the given violations.
func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// BulkItemError carries the violations of one item in a bulk request,
// identified by its zero-based position in the submitted batch.
type BulkItemError struct {
	Index  int          `json:"index"`
	Errors []FieldError `json:"errors"`
}

// BulkValidationError reports every invalid item in a rejected batch.
// The batch is rejected as a whole; nothing is persisted.
type BulkValidationError struct {
	Items []BulkItemError `json:"items"`
}

// Error implements the error interface.
func (e *BulkValidationError) Error() string {
	return fmt.Sprintf("bulk validation failed for %d item(s)", len(e.Items))
}

// Unwrap returns the validation sentinel so errors.Is still matches.
func (e *BulkValidationError) Unwrap() error {
	return domain.ErrValidation
}
