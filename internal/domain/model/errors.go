package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidResponse = errors.New("invalid questionnaire response")
)

// ValidationError identifies the answer field that failed validation.
type ValidationError struct {
	Field string
	Rule  string
}

// NewValidationError builds a ValidationError for field failing rule.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

func (e *ValidationError) Error() string {
	if e.Rule == "required" {
		return fmt.Sprintf("%s: missing %s", ErrInvalidResponse, e.Field)
	}
	return fmt.Sprintf("%s: %s failed %s", ErrInvalidResponse, e.Field, e.Rule)
}

// Unwrap exposes ErrInvalidResponse to errors.Is.
func (e *ValidationError) Unwrap() error { return ErrInvalidResponse }
