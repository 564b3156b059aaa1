package productsync

import (
	"context"
	"fmt"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// CheckDrift runs an on-demand drift check. Tenants without drift detection
// get a plan_required entitlement error.
func (s *Service) CheckDrift(ctx context.Context, tenantID, productID string) (domain.DriftCheckResult, error) {
	if err := s.requireDrift(ctx, tenantID); err != nil {
		return domain.DriftCheckResult{}, err
	}

	snap, err := s.catalog.FetchSnapshot(ctx, tenantID, productID)
	if err != nil {
		return domain.DriftCheckResult{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return s.drift.CheckForDrift(ctx, tenantID, productID, snap)
}

// AcceptBaseline accepts the product's current values of fields, or of every
// monitored field when none are given, as its new baseline.
func (s *Service) AcceptBaseline(ctx context.Context, tenantID, productID string, fields []string) error {
	if err := s.requireDrift(ctx, tenantID); err != nil {
		return err
	}

	snap, err := s.catalog.FetchSnapshot(ctx, tenantID, productID)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	return s.drift.AcceptBaseline(ctx, tenantID, productID, snap, fields...)
}

func (s *Service) requireDrift(ctx context.Context, tenantID string) error {
	policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("get plan: %w", err)
	}
	if !policy.DriftDetectionEnabled {
		return domain.NewPlanRequiredError(domain.FeatureDriftDetection)
	}
	return nil
}
