package history

import (
	"context"
	"fmt"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// GetHistory returns up to limit versions of a field, newest first.
// A non-positive limit uses DefaultHistoryLimit; larger values are capped.
// Tenants without version history get a plan_required entitlement error,
// the same answer a revert would give them.
func (s *Service) GetHistory(ctx context.Context, tenantID, productID, field string, limit int) ([]domain.FieldVersion, error) {
	if field == "" {
		return nil, domain.NewValidationError("field", "required")
	}
	policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if !policy.VersionHistoryEnabled {
		return nil, domain.NewPlanRequiredError(domain.FeatureVersionHistory)
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	versions, err := s.versions.ListByField(ctx, tenantID, productID, field, limit)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// Revert returns the value stored as version of the field for the caller to
// replay. It does not touch the catalog. Pruned or unknown versions yield
// domain.ErrNotFound.
func (s *Service) Revert(ctx context.Context, tenantID, productID, field string, version int) (string, error) {
	if field == "" {
		return "", domain.NewValidationError("field", "required")
	}
	if version < 1 {
		return "", domain.NewValidationError("version", "must be positive")
	}

	v, err := s.versions.GetVersion(ctx, tenantID, productID, field, version)
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}
	return v.Value, nil
}
