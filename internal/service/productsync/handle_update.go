package productsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// HandleProductUpdate re-audits the product from a fresh snapshot and, when
// the plan includes it, checks the product for drift. Redelivery of the same
// event is harmless: the audit is timestamp guarded and the drift check
// updates open records in place.
func (s *Service) HandleProductUpdate(ctx context.Context, ev domain.ProductUpdateEvent) (SyncResult, error) {
	if err := ev.Validate(); err != nil {
		return SyncResult{}, err
	}

	snap, err := s.catalog.FetchSnapshot(ctx, ev.TenantID, ev.ProductID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch snapshot: %w", err)
	}

	record, err := s.audit.Apply(ctx, ev.TenantID, ev.ProductID, snap)
	if err != nil {
		return SyncResult{}, fmt.Errorf("apply audit: %w", err)
	}
	result := SyncResult{Audit: record}

	policy, err := s.plans.GetPlanPolicy(ctx, ev.TenantID)
	if err != nil {
		return result, fmt.Errorf("get plan: %w", err)
	}
	if !policy.DriftDetectionEnabled {
		return result, nil
	}

	check, err := s.drift.CheckForDrift(ctx, ev.TenantID, ev.ProductID, snap)
	if err != nil {
		return result, fmt.Errorf("check drift: %w", err)
	}
	result.Drift = &check

	s.log.InfoContext(ctx, "product update handled",
		slog.String("tenant_id", ev.TenantID),
		slog.String("product_id", ev.ProductID),
		slog.String("status", record.Status.String()),
		slog.Bool("drift", check.Detected),
	)
	return result, nil
}
