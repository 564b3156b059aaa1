// Package report implements catalog report persistence using PostgreSQL.
// Reports are immutable; nested collections are stored as JSONB and decoded
// at this boundary only.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const table = "catalog_reports"

var columns = []string{
	"id", "tenant_id", "period_start", "period_end", "total_products", "ready_products",
	"average_score", "previous_average_score", "has_previous", "top_issues", "failing_rules",
	"products_at_risk", "most_improved", "drifts_detected", "drifts_resolved", "drifts_unresolved",
	"suggestions", "generated_at",
}

const insertScoreSQL = `INSERT INTO report_product_scores (report_id, product_id, score) VALUES ($1, $2, $3)`

// Repo provides report persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new report repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByPeriod returns the tenant's report for exactly [start, end).
// Returns domain.ErrNotFound if it has not been generated.
func (r *Repo) GetByPeriod(ctx context.Context, tenantID string, start, end time.Time) (domain.CatalogReport, error) {
	return r.getOne(ctx, postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "period_start": start, "period_end": end}),
		tenantID)
}

// GetByID returns one report of the tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error) {
	return r.getOne(ctx, postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}),
		id.String())
}

// GetLatest returns the report with the latest period start.
// Returns domain.ErrNotFound when the tenant has no reports.
func (r *Repo) GetLatest(ctx context.Context, tenantID string) (domain.CatalogReport, error) {
	return r.getOne(ctx, postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("period_start DESC", "generated_at DESC").
		Limit(1),
		tenantID)
}

// GetLatestBefore returns the most recent report whose period starts before
// the given instant.
func (r *Repo) GetLatestBefore(ctx context.Context, tenantID string, before time.Time) (domain.CatalogReport, error) {
	return r.getOne(ctx, postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		Where(sq.Lt{"period_start": before}).
		OrderBy("period_start DESC", "generated_at DESC").
		Limit(1),
		tenantID)
}

// List returns the tenant's reports newest-first.
func (r *Repo) List(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("period_start DESC", "generated_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list catalog_reports: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog_reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.CatalogReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("list catalog_reports: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog_reports: %w", err)
	}
	return reports, nil
}

// GetScores returns the per-product scores stored with a report.
func (r *Repo) GetScores(ctx context.Context, reportID uuid.UUID) (map[string]float64, error) {
	query, args, err := postgres.Builder.
		Select("product_id", "score").
		From("report_product_scores").
		Where(sq.Eq{"report_id": reportID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get report scores: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get report scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var (
			productID string
			score     float64
		)
		if err := rows.Scan(&productID, &score); err != nil {
			return nil, fmt.Errorf("get report scores: %w", err)
		}
		scores[productID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get report scores: %w", err)
	}
	return scores, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a report. Returns domain.ErrAlreadyExists when the tenant
// already has a report for the period.
func (r *Repo) Create(ctx context.Context, rep domain.CatalogReport) (domain.CatalogReport, error) {
	blobs, err := marshalBlobs(rep)
	if err != nil {
		return domain.CatalogReport{}, fmt.Errorf("catalog_report marshal: %w", err)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(
			rep.ID, rep.TenantID, rep.PeriodStart, rep.PeriodEnd, rep.TotalProducts, rep.ReadyProducts,
			rep.AverageScore, rep.PreviousAverageScore, rep.HasPrevious, blobs[0], blobs[1],
			blobs[2], blobs[3], rep.DriftsDetected, rep.DriftsResolved, rep.DriftsUnresolved,
			blobs[4], rep.GeneratedAt,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.CatalogReport{}, fmt.Errorf("build insert catalog_report: %w", err)
	}

	saved, err := scanReport(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.CatalogReport{}, postgres.MapError(err, "catalog_report", rep.ID.String())
	}
	return saved, nil
}

// InsertScores stores per-product scores for a report in one batch.
func (r *Repo) InsertScores(ctx context.Context, reportID uuid.UUID, scores []domain.ProductScore) error {
	if len(scores) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range scores {
		batch.Queue(insertScoreSQL, reportID, s.ProductID, s.Score)
	}

	br := postgres.QuerierFromCtx(ctx, r.db).SendBatch(ctx, batch)
	defer br.Close()

	for range scores {
		if _, err := br.Exec(); err != nil {
			return postgres.MapError(err, "report_product_score", reportID.String())
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, b sq.SelectBuilder, id string) (domain.CatalogReport, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return domain.CatalogReport{}, fmt.Errorf("build get catalog_report: %w", err)
	}

	rep, err := scanReport(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.CatalogReport{}, postgres.MapError(err, "catalog_report", id)
	}
	return rep, nil
}

func marshalBlobs(rep domain.CatalogReport) ([5][]byte, error) {
	var out [5][]byte
	values := []any{
		nonNil(rep.TopIssues), nonNil(rep.FailingRules), nonNil(rep.ProductsAtRisk),
		nonNil(rep.MostImproved), nonNil(rep.Suggestions),
	}
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}

// nonNil stores empty collections as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanReport(row pgx.Row) (domain.CatalogReport, error) {
	var (
		rep                                  domain.CatalogReport
		topIssues, failing, atRisk, improved []byte
		suggestions                          []byte
	)
	err := row.Scan(
		&rep.ID, &rep.TenantID, &rep.PeriodStart, &rep.PeriodEnd, &rep.TotalProducts, &rep.ReadyProducts,
		&rep.AverageScore, &rep.PreviousAverageScore, &rep.HasPrevious, &topIssues, &failing,
		&atRisk, &improved, &rep.DriftsDetected, &rep.DriftsResolved, &rep.DriftsUnresolved,
		&suggestions, &rep.GeneratedAt,
	)
	if err != nil {
		return domain.CatalogReport{}, err
	}

	targets := []struct {
		raw []byte
		dst any
	}{
		{topIssues, &rep.TopIssues},
		{failing, &rep.FailingRules},
		{atRisk, &rep.ProductsAtRisk},
		{improved, &rep.MostImproved},
		{suggestions, &rep.Suggestions},
	}
	for _, t := range targets {
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return domain.CatalogReport{}, fmt.Errorf("unmarshal report blob: %w", err)
		}
	}
	return rep, nil
}
