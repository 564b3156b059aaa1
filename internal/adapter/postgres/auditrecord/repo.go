// Package auditrecord implements the audit record repository using PostgreSQL.
// One row is kept per (tenant, product) and overwritten on every evaluation.
package auditrecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const table = "audit_records"

var columns = []string{
	"tenant_id", "product_id", "status", "passed_count", "failed_count",
	"total_count", "items", "source_updated_at", "updated_at",
}

// Repo provides audit record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// upsertSuffix overwrites the live row unless the stored snapshot is newer
// than the incoming one. RETURNING yields no row in that case.
const upsertSuffix = `ON CONFLICT (tenant_id, product_id) DO UPDATE SET
    status            = EXCLUDED.status,
    passed_count      = EXCLUDED.passed_count,
    failed_count      = EXCLUDED.failed_count,
    total_count       = EXCLUDED.total_count,
    items             = EXCLUDED.items,
    source_updated_at = EXCLUDED.source_updated_at,
    updated_at        = EXCLUDED.updated_at
WHERE audit_records.source_updated_at <= EXCLUDED.source_updated_at
RETURNING tenant_id, product_id, status, passed_count, failed_count, total_count, items, source_updated_at, updated_at`

// Upsert writes the record. Returns domain.ErrStaleSnapshot when the stored
// record was built from a newer snapshot.
func (r *Repo) Upsert(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error) {
	items, err := json.Marshal(record.Items)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record marshal items: %w", err)
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(
			record.TenantID, record.ProductID, string(record.Status),
			record.PassedCount, record.FailedCount, record.TotalCount,
			items, record.SourceUpdatedAt, record.UpdatedAt,
		).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build upsert audit_record: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...)
	saved, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AuditRecord{}, fmt.Errorf("audit_record %s: %w", record.ProductID, domain.ErrStaleSnapshot)
	}
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", record.ProductID)
	}

	return saved, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the record for a product.
// Returns domain.ErrNotFound if the product has never been audited.
func (r *Repo) Get(ctx context.Context, tenantID, productID string) (domain.AuditRecord, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID}).
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build get audit_record: %w", err)
	}

	record, err := scanRecord(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", productID)
	}
	return record, nil
}

// ListIncomplete returns incomplete records ordered by (updated_at, product_id),
// strictly after the cursor when one is given.
func (r *Repo) ListIncomplete(ctx context.Context, tenantID string, after *domain.IncompleteCursor, limit int) ([]domain.AuditRecord, error) {
	b := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "status": string(domain.AuditStatusIncomplete)}).
		OrderBy("updated_at ASC", "product_id ASC").
		Limit(uint64(limit))
	if after != nil {
		b = b.Where("(updated_at, product_id) > (?, ?)", after.UpdatedAt, after.ProductID)
	}

	return r.list(ctx, b, "list incomplete audit_records")
}

// ListPage returns the tenant's live records ordered by product_id and keyed
// after afterProductID.
func (r *Repo) ListPage(ctx context.Context, tenantID string, afterProductID string, limit int) ([]domain.AuditRecord, error) {
	b := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("product_id ASC").
		Limit(uint64(limit))
	if afterProductID != "" {
		b = b.Where(sq.Gt{"product_id": afterProductID})
	}

	return r.list(ctx, b, "list audit_records page")
}

// ListTenants returns every tenant that has at least one audit record.
func (r *Repo) ListTenants(ctx context.Context) ([]string, error) {
	query, args, err := postgres.Builder.
		Select("DISTINCT tenant_id").
		From(table).
		OrderBy("tenant_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tenants: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	tenants, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder, op string) ([]domain.AuditRecord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0)
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

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanRecord(row pgx.Row) (domain.AuditRecord, error) {
	var (
		rec    domain.AuditRecord
		status string
		items  []byte
	)
	err := row.Scan(
		&rec.TenantID, &rec.ProductID, &status, &rec.PassedCount, &rec.FailedCount,
		&rec.TotalCount, &items, &rec.SourceUpdatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.AuditRecord{}, err
	}

	rec.Status = domain.AuditStatus(status)
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return domain.AuditRecord{}, fmt.Errorf("unmarshal items: %w", err)
	}
	return rec, nil
}
