package drift

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// memStore is an in-memory baselineRepo and driftRepo enforcing one open
// record per (tenant, product, field).
type memStore struct {
	mu        sync.Mutex
	baselines map[string]domain.Baseline
	records   []domain.DriftRecord
}

var (
	_ baselineRepo = (*memStore)(nil)
	_ driftRepo    = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{baselines: map[string]domain.Baseline{}}
}

func (m *memStore) Get(ctx context.Context, tenantID, productID string) (domain.Baseline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.baselines[tenantID+"/"+productID]
	if !ok {
		return domain.Baseline{}, fmt.Errorf("baseline %s: %w", productID, domain.ErrNotFound)
	}
	b.Fields = maps.Clone(b.Fields)
	return b, nil
}

func (m *memStore) Upsert(ctx context.Context, b domain.Baseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.Fields = maps.Clone(b.Fields)
	m.baselines[b.TenantID+"/"+b.ProductID] = b
	return nil
}

func (m *memStore) ListOpenByProduct(ctx context.Context, tenantID, productID string) (map[string]domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.DriftRecord{}
	for _, r := range m.records {
		if r.TenantID == tenantID && r.ProductID == productID && !r.IsResolved {
			out[r.Field] = r
		}
	}
	return out, nil
}

func (m *memStore) ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DriftRecord
	for _, r := range m.records {
		if r.TenantID == tenantID && !r.IsResolved && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Create(ctx context.Context, rec domain.DriftRecord) (domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.TenantID == rec.TenantID && r.ProductID == rec.ProductID && r.Field == rec.Field && !r.IsResolved {
			return domain.DriftRecord{}, fmt.Errorf("drift_record %s: %w", rec.Field, domain.ErrAlreadyExists)
		}
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memStore) UpdateObserved(ctx context.Context, id uuid.UUID, observed string, severity domain.DriftSeverity, detectedAt time.Time) (domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id && !r.IsResolved {
			m.records[i].ObservedValue = observed
			m.records[i].Severity = severity
			m.records[i].DetectedAt = detectedAt
			return m.records[i], nil
		}
	}
	return domain.DriftRecord{}, fmt.Errorf("drift_record %s: %w", id, domain.ErrNotFound)
}

func (m *memStore) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id && !r.IsResolved {
			m.records[i].IsResolved = true
			m.records[i].ResolvedAt = &at
			return m.records[i], nil
		}
	}
	return domain.DriftRecord{}, fmt.Errorf("drift_record %s: %w", id, domain.ErrNotFound)
}

func (m *memStore) ResolveAllForProduct(ctx context.Context, tenantID, productID string, at time.Time) ([]domain.DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DriftRecord
	for i, r := range m.records {
		if r.TenantID == tenantID && r.ProductID == productID && !r.IsResolved {
			m.records[i].IsResolved = true
			m.records[i].ResolvedAt = &at
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// openCount returns the number of unresolved records for a field.
func (m *memStore) openCount(productID, field string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.ProductID == productID && r.Field == field && !r.IsResolved {
			n++
		}
	}
	return n
}
