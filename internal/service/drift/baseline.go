package drift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// AcceptBaseline makes the current values of fields the product's new
// baseline and resolves their open drift records. With no fields, every
// monitored field is accepted. Fields that are not monitored are ignored.
// A product without a baseline gets a full one.
func (s *Service) AcceptBaseline(ctx context.Context, tenantID, productID string, snap domain.Snapshot, fields ...string) error {
	accepted := make([]string, 0, len(fields))
	for _, f := range fields {
		if IsMonitored(f) {
			accepted = append(accepted, f)
		}
	}
	if len(fields) > 0 && len(accepted) == 0 {
		return nil
	}

	now := s.now()
	current := MonitoredValues(snap)

	base, err := s.baselines.Get(ctx, tenantID, productID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		base = domain.Baseline{TenantID: tenantID, ProductID: productID}
		accepted = nil
	case err != nil:
		return fmt.Errorf("get baseline: %w", err)
	}

	if len(accepted) == 0 || base.Fields == nil {
		base.Fields = current
	} else {
		for _, f := range accepted {
			base.Fields[f] = current[f]
		}
	}
	base.CapturedAt = now

	if err := s.baselines.Upsert(ctx, base); err != nil {
		return fmt.Errorf("upsert baseline: %w", err)
	}

	resolved, err := s.resolve(ctx, tenantID, productID, accepted)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "baseline accepted",
		slog.String("tenant_id", tenantID),
		slog.String("product_id", productID),
		slog.Int("fields", len(accepted)),
		slog.Int("resolved", resolved),
	)
	return nil
}

// resolve closes the open records of fields, or all of them when fields is empty.
func (s *Service) resolve(ctx context.Context, tenantID, productID string, fields []string) (int, error) {
	now := s.now()
	if len(fields) == 0 {
		recs, err := s.drifts.ResolveAllForProduct(ctx, tenantID, productID, now)
		if err != nil {
			return 0, fmt.Errorf("resolve drifts: %w", err)
		}
		return len(recs), nil
	}

	open, err := s.drifts.ListOpenByProduct(ctx, tenantID, productID)
	if err != nil {
		return 0, fmt.Errorf("list open drifts: %w", err)
	}
	n := 0
	for _, f := range fields {
		rec, ok := open[f]
		if !ok {
			continue
		}
		_, err := s.drifts.Resolve(ctx, rec.ID, now)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("resolve drift: %w", err)
		}
		n++
	}
	return n, nil
}

// ListOpen returns the tenant's unresolved drift records, newest first.
func (s *Service) ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	recs, err := s.drifts.ListOpen(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list open drifts: %w", err)
	}
	return recs, nil
}
