package report

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/ruleset"
)

// record builds an audit record that fails exactly the given rule keys.
func record(tenantID, productID string, updatedAt time.Time, failed ...string) domain.AuditRecord {
	rules := ruleset.Default().Rules()
	items := make([]domain.AuditItemResult, len(rules))
	for i, info := range rules {
		status := domain.ItemStatusPassed
		if slices.Contains(failed, info.Key) {
			status = domain.ItemStatusFailed
		}
		items[i] = domain.AuditItemResult{Key: info.Key, Label: info.Label, Status: status}
	}
	r := domain.AuditRecord{
		TenantID:        tenantID,
		ProductID:       productID,
		Items:           items,
		SourceUpdatedAt: updatedAt,
		UpdatedAt:       updatedAt,
	}
	r.Recount()
	return r
}

// memAudits serves audit records the way the keyset page query does.
type memAudits struct {
	records []domain.AuditRecord
}

func (m *memAudits) ListPage(ctx context.Context, tenantID string, afterProductID string, limit int) ([]domain.AuditRecord, error) {
	var page []domain.AuditRecord
	for _, r := range m.records {
		if r.TenantID == tenantID && r.ProductID > afterProductID {
			page = append(page, r)
		}
	}
	slices.SortFunc(page, func(a, b domain.AuditRecord) int { return cmp.Compare(a.ProductID, b.ProductID) })
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

// memReports is an in-memory report store.
type memReports struct {
	mu          sync.Mutex
	reports     []domain.CatalogReport
	scores      map[uuid.UUID]map[string]float64
	scoreBatches []int
	// conflict, when set, is stored instead of the created report to
	// simulate a concurrent generation of the same period.
	conflict *domain.CatalogReport
}

func newMemReports() *memReports {
	return &memReports{scores: map[uuid.UUID]map[string]float64{}}
}

func (m *memReports) GetByPeriod(ctx context.Context, tenantID string, start, end time.Time) (domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.TenantID == tenantID && r.PeriodStart.Equal(start) && r.PeriodEnd.Equal(end) {
			return r, nil
		}
	}
	return domain.CatalogReport{}, domain.ErrNotFound
}

func (m *memReports) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.TenantID == tenantID && r.ID == id {
			return r, nil
		}
	}
	return domain.CatalogReport{}, domain.ErrNotFound
}

func (m *memReports) sorted(tenantID string) []domain.CatalogReport {
	var out []domain.CatalogReport
	for _, r := range m.reports {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b domain.CatalogReport) int { return b.PeriodStart.Compare(a.PeriodStart) })
	return out
}

func (m *memReports) GetLatest(ctx context.Context, tenantID string) (domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(tenantID)
	if len(all) == 0 {
		return domain.CatalogReport{}, domain.ErrNotFound
	}
	return all[0], nil
}

func (m *memReports) GetLatestBefore(ctx context.Context, tenantID string, before time.Time) (domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.sorted(tenantID) {
		if r.PeriodStart.Before(before) {
			return r, nil
		}
	}
	return domain.CatalogReport{}, domain.ErrNotFound
}

func (m *memReports) List(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(tenantID)
	return all[:min(limit, len(all))], nil
}

func (m *memReports) GetScores(ctx context.Context, reportID uuid.UUID) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.scores[reportID]), nil
}

func (m *memReports) Create(ctx context.Context, rep domain.CatalogReport) (domain.CatalogReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflict != nil {
		m.reports = append(m.reports, *m.conflict)
		m.conflict = nil
		return domain.CatalogReport{}, domain.ErrAlreadyExists
	}
	for _, r := range m.reports {
		if r.TenantID == rep.TenantID && r.PeriodStart.Equal(rep.PeriodStart) && r.PeriodEnd.Equal(rep.PeriodEnd) {
			return domain.CatalogReport{}, domain.ErrAlreadyExists
		}
	}
	m.reports = append(m.reports, rep)
	return rep, nil
}

func (m *memReports) InsertScores(ctx context.Context, reportID uuid.UUID, scores []domain.ProductScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scores[reportID] == nil {
		m.scores[reportID] = map[string]float64{}
	}
	for _, s := range scores {
		m.scores[reportID][s.ProductID] = s.Score
	}
	m.scoreBatches = append(m.scoreBatches, len(scores))
	return nil
}

func (m *memReports) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// passTx runs fn without a transaction and counts calls.
type passTx struct {
	mu    sync.Mutex
	calls int
}

func (p *passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return fn(ctx)
}
