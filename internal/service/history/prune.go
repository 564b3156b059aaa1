package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// PruneSummary reports a retention sweep.
type PruneSummary struct {
	Tenants int
	Deleted int64
	Failed  int
}

// PruneTenant deletes the tenant's versions older than its retention window.
// The newest version of every field always survives. Tenants without a
// positive retention window are left untouched.
func (s *Service) PruneTenant(ctx context.Context, tenantID string, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)

	var deleted int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.versions.PruneOlderThan(ctx, tenantID, cutoff)
		deleted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune tenant %s: %w", tenantID, err)
	}
	return deleted, nil
}

// PruneAll sweeps every tenant that has stored versions, looking up each
// tenant's retention window from its plan. A failing tenant does not stop
// the sweep; all failures are returned joined.
func (s *Service) PruneAll(ctx context.Context) (PruneSummary, error) {
	tenants, err := s.versions.ListTenants(ctx)
	if err != nil {
		return PruneSummary{}, fmt.Errorf("list tenants: %w", err)
	}

	var (
		summary PruneSummary
		errs    []error
	)
	for _, tenantID := range tenants {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		summary.Tenants++

		policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
		if err != nil {
			summary.Failed++
			errs = append(errs, fmt.Errorf("plan for %s: %w", tenantID, err))
			continue
		}

		n, err := s.PruneTenant(ctx, tenantID, policy.RetentionDays)
		if err != nil {
			summary.Failed++
			errs = append(errs, err)
			s.log.ErrorContext(ctx, "prune tenant failed",
				slog.String("tenant_id", tenantID),
				slog.String("error", err.Error()),
			)
			continue
		}
		summary.Deleted += n
	}

	s.log.InfoContext(ctx, "retention sweep finished",
		slog.Int("tenants", summary.Tenants),
		slog.Int64("deleted", summary.Deleted),
		slog.Int("failed", summary.Failed),
	)
	return summary, errors.Join(errs...)
}
