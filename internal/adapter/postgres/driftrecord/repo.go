// Package driftrecord implements drift record persistence using PostgreSQL.
// Open records are unique per (tenant, product, field); resolved rows are kept
// for reporting.
package driftrecord

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const table = "drift_records"

var columns = []string{
	"id", "tenant_id", "product_id", "field", "previous_value", "observed_value",
	"severity", "detected_at", "is_resolved", "resolved_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides drift record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new drift record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const countForPeriodSQL = `
SELECT
    COUNT(*) FILTER (WHERE detected_at >= $2 AND detected_at < $3),
    COUNT(*) FILTER (WHERE is_resolved AND resolved_at >= $2 AND resolved_at < $3),
    COUNT(*) FILTER (WHERE NOT is_resolved)
FROM drift_records
WHERE tenant_id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListOpenByProduct returns the unresolved records of a product keyed by field.
func (r *Repo) ListOpenByProduct(ctx context.Context, tenantID, productID string) (map[string]domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID, "is_resolved": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list open drift_records: %w", err)
	}

	records, err := r.query(ctx, query, args, "list open drift_records by product")
	if err != nil {
		return nil, err
	}

	byField := make(map[string]domain.DriftRecord, len(records))
	for _, rec := range records {
		byField[rec.Field] = rec
	}
	return byField, nil
}

// ListOpen returns the tenant's unresolved records, most recently detected first.
func (r *Repo) ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "is_resolved": false}).
		OrderBy("detected_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list open drift_records: %w", err)
	}

	return r.query(ctx, query, args, "list open drift_records")
}

// CountForPeriod counts records detected and resolved within [start, end) and
// the records still open.
func (r *Repo) CountForPeriod(ctx context.Context, tenantID string, start, end time.Time) (domain.DriftCounts, error) {
	var c domain.DriftCounts
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, countForPeriodSQL, tenantID, start, end).
		Scan(&c.Detected, &c.Resolved, &c.Unresolved)
	if err != nil {
		return domain.DriftCounts{}, fmt.Errorf("count drift_records: %w", err)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an open record. Returns domain.ErrAlreadyExists when the
// field already has an open record.
func (r *Repo) Create(ctx context.Context, rec domain.DriftRecord) (domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(
			rec.ID, rec.TenantID, rec.ProductID, rec.Field, rec.PreviousValue, rec.ObservedValue,
			string(rec.Severity), rec.DetectedAt, false, nil,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.DriftRecord{}, fmt.Errorf("build insert drift_record: %w", err)
	}

	saved, err := scanRecord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.DriftRecord{}, postgres.MapError(err, "drift_record", rec.ProductID+"/"+rec.Field)
	}
	return saved, nil
}

// UpdateObserved rewrites the observation of an open record in place.
// Returns domain.ErrNotFound if the record is missing or already resolved.
func (r *Repo) UpdateObserved(ctx context.Context, id uuid.UUID, observed string, severity domain.DriftSeverity, detectedAt time.Time) (domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Update(table).
		Set("observed_value", observed).
		Set("severity", string(severity)).
		Set("detected_at", detectedAt).
		Where(sq.Eq{"id": id, "is_resolved": false}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.DriftRecord{}, fmt.Errorf("build update drift_record: %w", err)
	}

	saved, err := scanRecord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.DriftRecord{}, postgres.MapError(err, "drift_record", id.String())
	}
	return saved, nil
}

// Resolve closes an open record.
// Returns domain.ErrNotFound if the record is missing or already resolved.
func (r *Repo) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Update(table).
		Set("is_resolved", true).
		Set("resolved_at", at).
		Where(sq.Eq{"id": id, "is_resolved": false}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.DriftRecord{}, fmt.Errorf("build resolve drift_record: %w", err)
	}

	saved, err := scanRecord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.DriftRecord{}, postgres.MapError(err, "drift_record", id.String())
	}
	return saved, nil
}

// ResolveAllForProduct closes every open record of a product and returns them.
func (r *Repo) ResolveAllForProduct(ctx context.Context, tenantID, productID string, at time.Time) ([]domain.DriftRecord, error) {
	query, args, err := postgres.Builder.
		Update(table).
		Set("is_resolved", true).
		Set("resolved_at", at).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID, "is_resolved": false}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resolve product drift_records: %w", err)
	}

	return r.query(ctx, query, args, "resolve product drift_records")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) query(ctx context.Context, query string, args []any, op string) ([]domain.DriftRecord, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := make([]domain.DriftRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (domain.DriftRecord, error) {
	var (
		rec      domain.DriftRecord
		severity string
	)
	err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.ProductID, &rec.Field, &rec.PreviousValue, &rec.ObservedValue,
		&severity, &rec.DetectedAt, &rec.IsResolved, &rec.ResolvedAt,
	)
	if err != nil {
		return domain.DriftRecord{}, err
	}
	rec.Severity = domain.DriftSeverity(severity)
	return rec, nil
}
