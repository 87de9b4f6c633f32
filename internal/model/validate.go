package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateUnit checks a Unit record for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the unit is valid.
func ValidateUnit(u *Unit) error {
	var ve ValidationError

	// ID: required, path-safe slug.
	if !IsValidUnitID(u.ID) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "id",
			Message: fmt.Sprintf("invalid value %q, must match [a-z0-9][a-z0-9-]*", u.ID),
		})
	}

	// Status: must be a valid enum value (closed set).
	if !u.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", u.Status),
		})
	}

	// DependsOn: every referenced id must itself be a well-formed slug.
	for _, dep := range u.DependsOn {
		if !IsValidUnitID(dep) {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "depends_on",
				Message: fmt.Sprintf("invalid dependency id %q", dep),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateIntent checks an Intent record for constraint violations.
func ValidateIntent(in *Intent) error {
	var ve ValidationError

	if !IsValidUnitID(in.Slug) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "slug",
			Message: fmt.Sprintf("invalid value %q, must match [a-z0-9][a-z0-9-]*", in.Slug),
		})
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 500 characters or fewer"})
	}

	if !in.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", in.Status),
		})
	}

	// CompletedAt consistency with Status.
	if in.Status == IntentCompleted && in.CompletedAt == nil {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "completed_at",
			Message: "is required when status is completed",
		})
	}
	if in.Status != IntentCompleted && in.CompletedAt != nil {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "completed_at",
			Message: "must be nil when status is not completed",
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
