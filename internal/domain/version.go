package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldVersion is the value a field held immediately before change Version was
// applied. Versions are append-only and numbered per (ProductID, Field).
type FieldVersion struct {
	ID        uuid.UUID     `json:"id"`
	TenantID  string        `json:"tenantId"`
	ProductID string        `json:"productId"`
	Field     string        `json:"field"`
	Value     string        `json:"value"`
	Version   int           `json:"version"`
	Source    VersionSource `json:"source"`
	AIModel   *string       `json:"aiModel,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// VersionWrite is a request to record the value a field holds before it is
// replaced by a change from Source.
type VersionWrite struct {
	TenantID  string
	ProductID string
	Field     string
	Value     string
	Source    VersionSource
	AIModel   *string
}

// Validate checks the request before any storage is touched.
func (w VersionWrite) Validate() error {
	var errs []FieldError
	if w.TenantID == "" {
		errs = append(errs, FieldError{Field: "tenant_id", Message: "required"})
	}
	if w.ProductID == "" {
		errs = append(errs, FieldError{Field: "product_id", Message: "required"})
	}
	if w.Field == "" {
		errs = append(errs, FieldError{Field: "field", Message: "required"})
	}
	if !w.Source.IsValid() {
		errs = append(errs, FieldError{Field: "source", Message: "invalid value"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
