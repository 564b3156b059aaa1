package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var tracer = otel.Tracer("github.com/heartmarshall/catalog-compliance/internal/service/report")

// readyPayload is the body of a report_ready notification.
type readyPayload struct {
	ReportID     string  `json:"reportId"`
	PeriodStart  string  `json:"periodStart"`
	PeriodEnd    string  `json:"periodEnd"`
	AverageScore float64 `json:"averageScore"`
}

// GenerateReport builds the tenant's report for period from the tenant's live
// audit records. Reports are immutable: when one
// already exists for the period it is returned unchanged.
func (s *Service) GenerateReport(ctx context.Context, tenantID string, period domain.Period) (domain.CatalogReport, error) {
	if err := period.Validate(); err != nil {
		return domain.CatalogReport{}, err
	}
	period = domain.Period{Start: period.Start.UTC(), End: period.End.UTC()}

	ctx, span := tracer.Start(ctx, "report.GenerateReport", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("period_start", period.Start.Format("2006-01-02")),
	))
	defer span.End()

	existing, err := s.reports.GetByPeriod(ctx, tenantID, period.Start, period.End)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.CatalogReport{}, fmt.Errorf("get report: %w", err)
	}

	rep, err := s.build(ctx, tenantID, period)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Another run stored the period first.
		return s.reports.GetByPeriod(ctx, tenantID, period.Start, period.End)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.CatalogReport{}, err
	}

	s.notify.Notify(ctx, tenantID, domain.NotificationReportReady, readyPayload{
		ReportID:     rep.ID.String(),
		PeriodStart:  rep.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    rep.PeriodEnd.Format("2006-01-02"),
		AverageScore: rep.AverageScore,
	})

	s.log.InfoContext(ctx, "report generated",
		slog.String("tenant_id", tenantID),
		slog.String("report_id", rep.ID.String()),
		slog.Int("total_products", rep.TotalProducts),
		slog.Float64("average_score", rep.AverageScore),
	)
	return rep, nil
}

// build aggregates the audit records as they stand at generation time. Audit
// records keep no history, so a product recomputed after the period end is
// counted with its current score; drift counts alone are bounded by period.
func (s *Service) build(ctx context.Context, tenantID string, period domain.Period) (domain.CatalogReport, error) {
	var (
		previous       *domain.CatalogReport
		previousScores map[string]float64
		drift          domain.DriftCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prev, err := s.reports.GetLatestBefore(gctx, tenantID, period.Start)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get previous report: %w", err)
		}
		scores, err := s.reports.GetScores(gctx, prev.ID)
		if err != nil {
			return fmt.Errorf("get previous scores: %w", err)
		}
		previous, previousScores = &prev, scores
		return nil
	})
	g.Go(func() error {
		var err error
		drift, err = s.drifts.CountForPeriod(gctx, tenantID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("count drifts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.CatalogReport{}, err
	}

	rep := domain.CatalogReport{
		ID:               s.newID(),
		TenantID:         tenantID,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		DriftsDetected:   drift.Detected,
		DriftsResolved:   drift.Resolved,
		DriftsUnresolved: drift.Unresolved,
		GeneratedAt:      s.now(),
	}
	if previous != nil {
		rep.HasPrevious = true
		rep.PreviousAverageScore = previous.AverageScore
	}

	agg := newAggregator(previousScores, s.cfg.AtRiskLimit)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		after := ""
		for {
			page, err := s.audits.ListPage(ctx, tenantID, after, s.cfg.BatchSize)
			if err != nil {
				return fmt.Errorf("list audit records: %w", err)
			}
			if len(page) == 0 {
				break
			}
			scores := make([]domain.ProductScore, len(page))
			for i, r := range page {
				scores[i] = agg.add(r)
			}
			if err := s.reports.InsertScores(ctx, rep.ID, scores); err != nil {
				return fmt.Errorf("insert scores: %w", err)
			}
			if len(page) < s.cfg.BatchSize {
				break
			}
			after = page[len(page)-1].ProductID
		}

		agg.fill(&rep, s.cfg.ImprovedLimit)
		rep.Suggestions = suggest(rep, s.rules)

		saved, err := s.reports.Create(ctx, rep)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		rep = saved
		return nil
	})
	if err != nil {
		return domain.CatalogReport{}, err
	}
	return rep, nil
}
