package remediation

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// fakeCatalog holds one product and applies patches to it.
type fakeCatalog struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	mutations []domain.ProductPatch

	// mutate, when set, runs before a patch is applied. A non-nil error or
	// mutation errors stop the patch.
	mutate func(ctx context.Context, p domain.ProductPatch) ([]domain.MutationError, error)
	// altLimit caps how many image alts one patch can set; zero means no cap.
	altLimit int
}

var _ catalogClient = (*fakeCatalog)(nil)

func (f *fakeCatalog) FetchSnapshot(ctx context.Context, tenantID, productID string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID != f.snap.ProductID {
		return domain.Snapshot{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return cloneSnapshot(f.snap), nil
}

func (f *fakeCatalog) ApplyMutation(ctx context.Context, tenantID, productID string, p domain.ProductPatch) (domain.MutationResult, error) {
	if f.mutate != nil {
		errs, err := f.mutate(ctx, p)
		if err != nil {
			return domain.MutationResult{}, err
		}
		if len(errs) > 0 {
			return domain.MutationResult{Errors: errs}, nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, p)

	s := &f.snap
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Title, p.Title)
	set(&s.Description, p.Description)
	set(&s.Vendor, p.Vendor)
	set(&s.ProductType, p.ProductType)
	set(&s.SEOTitle, p.SEOTitle)
	set(&s.SEODescription, p.SEODescription)
	if p.Tags != nil {
		s.Tags = slices.Clone(p.Tags)
	}
	applied := 0
	for i, img := range s.Images {
		alt, ok := p.ImageAlts[img.ID]
		if !ok || (f.altLimit > 0 && applied >= f.altLimit) {
			continue
		}
		s.Images[i].AltText = alt
		applied++
	}
	s.UpdatedAt = s.UpdatedAt.Add(time.Second)
	return domain.MutationResult{}, nil
}

func (f *fakeCatalog) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mutations)
}

func cloneSnapshot(s domain.Snapshot) domain.Snapshot {
	s.Tags = slices.Clone(s.Tags)
	s.Images = slices.Clone(s.Images)
	s.Collections = slices.Clone(s.Collections)
	return s
}

// memRecords is an in-memory audit record store with the timestamp guard.
// Like the real clients, the fakes fail fast on a done context.
type memRecords struct {
	mu      sync.Mutex
	records map[string]domain.AuditRecord
}

func newMemRecords() *memRecords {
	return &memRecords{records: map[string]domain.AuditRecord{}}
}

func (m *memRecords) Upsert(ctx context.Context, r domain.AuditRecord) (domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuditRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.TenantID + "/" + r.ProductID
	if old, ok := m.records[key]; ok && old.SourceUpdatedAt.After(r.SourceUpdatedAt) {
		return domain.AuditRecord{}, domain.ErrStaleSnapshot
	}
	m.records[key] = r
	return r, nil
}

func (m *memRecords) Get(ctx context.Context, tenantID, productID string) (domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuditRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[tenantID+"/"+productID]
	if !ok {
		return domain.AuditRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memRecords) ListIncomplete(ctx context.Context, tenantID string, after *domain.IncompleteCursor, limit int) ([]domain.AuditRecord, error) {
	return nil, nil
}
