package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// RecordVersion stores w.Value as the next version of the field and prunes
// the tenant's versions past the retention window. It returns nil when the
// plan keeps no history.
//
// Writes to the same field are serialized by lock; number allocation, insert
// and prune commit together.
func (s *Service) RecordVersion(ctx context.Context, policy domain.PlanPolicy, w domain.VersionWrite) (*domain.FieldVersion, error) {
	if !policy.KeepsHistory() {
		return nil, nil
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, lockKey(w.TenantID, w.ProductID, w.Field))
	if err != nil {
		return nil, fmt.Errorf("lock field: %w", err)
	}
	defer release()

	now := s.now()
	cutoff := now.AddDate(0, 0, -policy.RetentionDays)

	var saved domain.FieldVersion
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		latest, err := s.versions.LatestVersion(ctx, w.TenantID, w.ProductID, w.Field)
		if err != nil {
			return fmt.Errorf("latest version: %w", err)
		}
		next := latest + 1

		saved, err = s.versions.Create(ctx, domain.FieldVersion{
			ID:        uuid.New(),
			TenantID:  w.TenantID,
			ProductID: w.ProductID,
			Field:     w.Field,
			Value:     w.Value,
			Version:   next,
			Source:    w.Source,
			AIModel:   w.AIModel,
			CreatedAt: now,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			return &domain.IntegrityError{
				Invariant: "monotonic_version",
				Detail:    fmt.Sprintf("%s/%s version %d already taken", w.ProductID, w.Field, next),
			}
		}
		if err != nil {
			return fmt.Errorf("create version: %w", err)
		}

		pruned, err := s.versions.PruneOlderThan(ctx, w.TenantID, cutoff)
		if err != nil {
			return fmt.Errorf("prune versions: %w", err)
		}

		after, err := s.versions.LatestVersion(ctx, w.TenantID, w.ProductID, w.Field)
		if err != nil {
			return fmt.Errorf("latest version: %w", err)
		}
		if after != next {
			return &domain.IntegrityError{
				Invariant: "retention_keeps_latest",
				Detail:    fmt.Sprintf("%s/%s latest is %d after writing %d", w.ProductID, w.Field, after, next),
			}
		}

		if pruned > 0 {
			s.log.InfoContext(ctx, "versions pruned",
				slog.String("tenant_id", w.TenantID),
				slog.Int64("count", pruned),
			)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			s.log.ErrorContext(ctx, "version store invariant violated",
				slog.String("tenant_id", w.TenantID),
				slog.String("product_id", w.ProductID),
				slog.String("field", w.Field),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.log.DebugContext(ctx, "version recorded",
		slog.String("tenant_id", w.TenantID),
		slog.String("product_id", w.ProductID),
		slog.String("field", w.Field),
		slog.Int("version", saved.Version),
		slog.String("source", w.Source.String()),
	)
	return &saved, nil
}
