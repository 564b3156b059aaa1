package drift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// alertPayload is sent with a drift_alert notification.
type alertPayload struct {
	ProductID string               `json:"productId"`
	Drifts    []domain.DriftRecord `json:"drifts"`
}

// CheckForDrift compares the monitored fields of snap with the product's
// baseline. The first check of a product captures the baseline and reports
// nothing. A differing field opens a record, or updates the open one in
// place; a field back at its baseline value resolves its open record.
func (s *Service) CheckForDrift(ctx context.Context, tenantID, productID string, snap domain.Snapshot) (domain.DriftCheckResult, error) {
	now := s.now()
	current := MonitoredValues(snap)

	base, err := s.baselines.Get(ctx, tenantID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		if err := s.baselines.Upsert(ctx, domain.Baseline{
			TenantID:   tenantID,
			ProductID:  productID,
			Fields:     current,
			CapturedAt: now,
		}); err != nil {
			return domain.DriftCheckResult{}, fmt.Errorf("capture baseline: %w", err)
		}
		s.log.InfoContext(ctx, "baseline captured",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
		)
		return domain.DriftCheckResult{Drifts: []domain.DriftRecord{}, BaselineCaptured: true}, nil
	}
	if err != nil {
		return domain.DriftCheckResult{}, fmt.Errorf("get baseline: %w", err)
	}

	open, err := s.drifts.ListOpenByProduct(ctx, tenantID, productID)
	if err != nil {
		return domain.DriftCheckResult{}, fmt.Errorf("list open drifts: %w", err)
	}

	result := domain.DriftCheckResult{Drifts: []domain.DriftRecord{}}
	var opened []domain.DriftRecord

	for _, field := range MonitoredFields {
		want, ok := base.Fields[field]
		if !ok {
			continue
		}
		got := current[field]
		rec, isOpen := open[field]

		if got == want {
			if !isOpen {
				continue
			}
			resolved, err := s.drifts.Resolve(ctx, rec.ID, now)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return domain.DriftCheckResult{}, fmt.Errorf("resolve drift: %w", err)
			}
			result.Resolved = append(result.Resolved, resolved)
			continue
		}

		severity := Severity(field, want, got)
		if !isOpen {
			created, err := s.drifts.Create(ctx, domain.DriftRecord{
				ID:            uuid.New(),
				TenantID:      tenantID,
				ProductID:     productID,
				Field:         field,
				PreviousValue: want,
				ObservedValue: got,
				Severity:      severity,
				DetectedAt:    now,
			})
			switch {
			case err == nil:
				opened = append(opened, created)
				result.Drifts = append(result.Drifts, created)
				continue
			case errors.Is(err, domain.ErrAlreadyExists):
				// Opened by a concurrent check; fall through to update it.
				rec, err = s.reloadOpen(ctx, tenantID, productID, field)
				if err != nil {
					return domain.DriftCheckResult{}, err
				}
			default:
				return domain.DriftCheckResult{}, fmt.Errorf("create drift: %w", err)
			}
		}

		if rec.ObservedValue != got {
			rec, err = s.drifts.UpdateObserved(ctx, rec.ID, got, severity, now)
			if err != nil {
				return domain.DriftCheckResult{}, fmt.Errorf("update drift: %w", err)
			}
		}
		result.Drifts = append(result.Drifts, rec)
	}
	result.Detected = len(result.Drifts) > 0

	if len(opened) > 0 {
		s.log.InfoContext(ctx, "drift detected",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
			slog.Int("opened", len(opened)),
		)
		s.notify.Notify(ctx, tenantID, domain.NotificationDriftAlert, alertPayload{ProductID: productID, Drifts: opened})
	}
	return result, nil
}

func (s *Service) reloadOpen(ctx context.Context, tenantID, productID, field string) (domain.DriftRecord, error) {
	open, err := s.drifts.ListOpenByProduct(ctx, tenantID, productID)
	if err != nil {
		return domain.DriftRecord{}, fmt.Errorf("list open drifts: %w", err)
	}
	rec, ok := open[field]
	if !ok {
		return domain.DriftRecord{}, fmt.Errorf("open drift for %s vanished: %w", field, domain.ErrConflict)
	}
	return rec, nil
}
