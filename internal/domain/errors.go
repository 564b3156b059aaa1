package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrStaleSnapshot is returned when an audit upsert carries a snapshot
	// older than the one the stored record was built from.
	ErrStaleSnapshot = errors.New("stale snapshot")

	ErrEntitlement = errors.New("entitlement required")
	ErrIntegrity   = errors.New("data integrity violation")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// EntitlementKind tells the calling layer which upgrade path to offer.
type EntitlementKind string

const (
	EntitlementPlanRequired   EntitlementKind = "plan_required"
	EntitlementQuotaExhausted EntitlementKind = "quota_exhausted"
)

// EntitlementError is returned when a tenant attempts a plan-gated or
// quota-limited operation without the entitlement for it.
type EntitlementError struct {
	Kind    EntitlementKind
	Feature string
	Message string
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("entitlement: %s (%s): %s", e.Feature, e.Kind, e.Message)
}

func (e *EntitlementError) Unwrap() error { return ErrEntitlement }

// NewPlanRequiredError reports a feature that the tenant's plan does not include.
func NewPlanRequiredError(feature string) *EntitlementError {
	return &EntitlementError{
		Kind:    EntitlementPlanRequired,
		Feature: feature,
		Message: "upgrade your plan to use this feature",
	}
}

// NewQuotaExhaustedError reports a feature whose usage quota is used up.
func NewQuotaExhaustedError(feature string) *EntitlementError {
	return &EntitlementError{
		Kind:    EntitlementQuotaExhausted,
		Feature: feature,
		Message: "quota exhausted for the current billing period",
	}
}

// IntegrityError signals a broken storage invariant. It means writes were not
// serialized as required and must never be swallowed.
type IntegrityError struct {
	Invariant string
	Detail    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: %s: %s", e.Invariant, e.Detail)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
