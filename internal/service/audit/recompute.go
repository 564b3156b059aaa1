package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Recompute fetches the current snapshot of a product and stores its audit.
func (s *Service) Recompute(ctx context.Context, tenantID, productID string) (domain.AuditRecord, error) {
	snap, err := s.catalog.FetchSnapshot(ctx, tenantID, productID)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return s.Apply(ctx, tenantID, productID, snap)
}

// Apply evaluates snap and upserts the result. Keys listed in autoFixed that
// pass are marked auto_fixed; keys already auto_fixed stay so while they pass.
//
// When the stored record was built from a newer snapshot the write is
// dropped and the stored record is returned unchanged.
func (s *Service) Apply(ctx context.Context, tenantID, productID string, snap domain.Snapshot, autoFixed ...string) (domain.AuditRecord, error) {
	record := s.rules.Evaluate(snap)
	record.TenantID = tenantID
	record.ProductID = productID

	prev, err := s.records.Get(ctx, tenantID, productID)
	switch {
	case err == nil:
		carryAutoFixed(&record, prev)
	case errors.Is(err, domain.ErrNotFound):
	default:
		return domain.AuditRecord{}, fmt.Errorf("get audit: %w", err)
	}
	markAutoFixed(&record, autoFixed)
	record.Recount()
	record.UpdatedAt = time.Now().UTC()

	stored, err := s.records.Upsert(ctx, record)
	if errors.Is(err, domain.ErrStaleSnapshot) {
		s.log.InfoContext(ctx, "stale snapshot ignored",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
			slog.Time("source_updated_at", snap.UpdatedAt),
		)
		current, gerr := s.records.Get(ctx, tenantID, productID)
		if gerr != nil {
			return domain.AuditRecord{}, fmt.Errorf("get audit: %w", gerr)
		}
		return current, nil
	}
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("upsert audit: %w", err)
	}

	s.log.DebugContext(ctx, "audit stored",
		slog.String("tenant_id", tenantID),
		slog.String("product_id", productID),
		slog.String("status", stored.Status.String()),
		slog.Int("failed", stored.FailedCount),
	)
	return stored, nil
}

// Get returns the stored audit, or nil when the product was never audited.
func (s *Service) Get(ctx context.Context, tenantID, productID string) (*domain.AuditRecord, error) {
	record, err := s.records.Get(ctx, tenantID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return &record, nil
}

func carryAutoFixed(record *domain.AuditRecord, prev domain.AuditRecord) {
	for i, it := range record.Items {
		if it.Status != domain.ItemStatusPassed {
			continue
		}
		if old, ok := prev.Item(it.Key); ok && old.Status == domain.ItemStatusAutoFixed {
			record.Items[i].Status = domain.ItemStatusAutoFixed
		}
	}
}

func markAutoFixed(record *domain.AuditRecord, keys []string) {
	for i, it := range record.Items {
		if it.Status == domain.ItemStatusPassed && slices.Contains(keys, it.Key) {
			record.Items[i].Status = domain.ItemStatusAutoFixed
		}
	}
}
