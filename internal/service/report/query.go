package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// MaxHistoryLimit caps GetReportHistory.
const MaxHistoryLimit = 100

// GetLatestReport returns the tenant's most recent report, or
// domain.ErrNotFound when none was generated yet.
func (s *Service) GetLatestReport(ctx context.Context, tenantID string) (domain.CatalogReport, error) {
	rep, err := s.reports.GetLatest(ctx, tenantID)
	if err != nil {
		return domain.CatalogReport{}, fmt.Errorf("get latest report: %w", err)
	}
	return rep, nil
}

// GetReport returns one report of the tenant.
func (s *Service) GetReport(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error) {
	rep, err := s.reports.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.CatalogReport{}, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// GetReportHistory returns up to limit reports, newest period first.
// A non-positive limit uses the configured default.
func (s *Service) GetReportHistory(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	reports, err := s.reports.List(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
