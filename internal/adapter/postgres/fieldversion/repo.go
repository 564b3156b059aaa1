// Package fieldversion implements the append-only field version log using PostgreSQL.
package fieldversion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const table = "field_versions"

var columns = []string{
	"id", "tenant_id", "product_id", "field", "value", "version", "source", "ai_model", "created_at",
}

// Repo provides field version persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new field version repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

// pruneSQL deletes versions older than the cutoff for one tenant, keeping any
// version that has no newer sibling for the same (product, field).
const pruneSQL = `
DELETE FROM field_versions fv
WHERE fv.tenant_id = $1
  AND fv.created_at < $2
  AND EXISTS (
      SELECT 1 FROM field_versions n
      WHERE n.tenant_id = fv.tenant_id
        AND n.product_id = fv.product_id
        AND n.field = fv.field
        AND n.version > fv.version
  )`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// LatestVersion returns the highest stored version number for a field, or 0
// when the field has no history.
func (r *Repo) LatestVersion(ctx context.Context, tenantID, productID, field string) (int, error) {
	query, args, err := postgres.Builder.
		Select("COALESCE(MAX(version), 0)").
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID, "field": field}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build latest version: %w", err)
	}

	var latest int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&latest); err != nil {
		return 0, fmt.Errorf("latest version %s/%s: %w", productID, field, err)
	}
	return latest, nil
}

// ListByField returns versions of a field ordered newest-first.
// Returns an empty slice (not nil) when the field has no history.
func (r *Repo) ListByField(ctx context.Context, tenantID, productID, field string, limit int) ([]domain.FieldVersion, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID, "field": field}).
		OrderBy("version DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list field_versions: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list field_versions: %w", err)
	}
	defer rows.Close()

	versions := make([]domain.FieldVersion, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("list field_versions: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list field_versions: %w", err)
	}

	return versions, nil
}

// GetVersion returns one version of a field.
// Returns domain.ErrNotFound if it never existed or has been pruned.
func (r *Repo) GetVersion(ctx context.Context, tenantID, productID, field string, version int) (domain.FieldVersion, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID, "field": field, "version": version}).
		ToSql()
	if err != nil {
		return domain.FieldVersion{}, fmt.Errorf("build get field_version: %w", err)
	}

	v, err := scanVersion(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.FieldVersion{}, postgres.MapError(err, "field_version", field+"@"+strconv.Itoa(version))
	}
	return v, nil
}

// ListTenants returns every tenant that has stored versions.
func (r *Repo) ListTenants(ctx context.Context) ([]string, error) {
	query, args, err := postgres.Builder.
		Select("DISTINCT tenant_id").
		From(table).
		OrderBy("tenant_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list version tenants: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list version tenants: %w", err)
	}

	tenants, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list version tenants: %w", err)
	}
	return tenants, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a version. Returns domain.ErrAlreadyExists if the version
// number is already taken for the field.
func (r *Repo) Create(ctx context.Context, v domain.FieldVersion) (domain.FieldVersion, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(v.ID, v.TenantID, v.ProductID, v.Field, v.Value, v.Version, string(v.Source), v.AIModel, v.CreatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.FieldVersion{}, fmt.Errorf("build insert field_version: %w", err)
	}

	saved, err := scanVersion(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.FieldVersion{}, postgres.MapError(err, "field_version", v.Field+"@"+strconv.Itoa(v.Version))
	}
	return saved, nil
}

// PruneOlderThan deletes the tenant's versions created before cutoff, never
// removing the newest version of any field. Returns the number of rows deleted.
func (r *Repo) PruneOlderThan(ctx context.Context, tenantID string, cutoff time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, pruneSQL, tenantID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune field_versions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanVersion(row pgx.Row) (domain.FieldVersion, error) {
	var (
		v      domain.FieldVersion
		source string
	)
	err := row.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Field, &v.Value, &v.Version, &source, &v.AIModel, &v.CreatedAt)
	if err != nil {
		return domain.FieldVersion{}, err
	}
	v.Source = domain.VersionSource(source)
	return v, nil
}
