package domain

import "time"

// ProductUpdateEvent is the platform's notification that a product changed.
// Delivery is at least once; handling it must be idempotent.
type ProductUpdateEvent struct {
	TenantID   string    `json:"tenantId"`
	ProductID  string    `json:"productId"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Validate checks that the event identifies a product.
func (e ProductUpdateEvent) Validate() error {
	var errs []FieldError
	if e.TenantID == "" {
		errs = append(errs, FieldError{Field: "tenant_id", Message: "required"})
	}
	if e.ProductID == "" {
		errs = append(errs, FieldError{Field: "product_id", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
