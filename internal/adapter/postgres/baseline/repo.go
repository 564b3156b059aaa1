// Package baseline stores the known-good monitored field values per product.
package baseline

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Repo provides baseline persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new baseline repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the product's baseline.
// Returns domain.ErrNotFound if none has been captured yet.
func (r *Repo) Get(ctx context.Context, tenantID, productID string) (domain.Baseline, error) {
	query, args, err := postgres.Builder.
		Select("tenant_id", "product_id", "fields", "captured_at").
		From("product_baselines").
		Where(sq.Eq{"tenant_id": tenantID, "product_id": productID}).
		ToSql()
	if err != nil {
		return domain.Baseline{}, fmt.Errorf("build get baseline: %w", err)
	}

	var (
		b      domain.Baseline
		fields []byte
	)
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).
		Scan(&b.TenantID, &b.ProductID, &fields, &b.CapturedAt)
	if err != nil {
		return domain.Baseline{}, postgres.MapError(err, "baseline", productID)
	}

	if err := json.Unmarshal(fields, &b.Fields); err != nil {
		return domain.Baseline{}, fmt.Errorf("baseline %s unmarshal fields: %w", productID, err)
	}
	return b, nil
}

// Upsert creates or replaces the product's baseline.
func (r *Repo) Upsert(ctx context.Context, b domain.Baseline) error {
	fields, err := json.Marshal(b.Fields)
	if err != nil {
		return fmt.Errorf("baseline %s marshal fields: %w", b.ProductID, err)
	}

	query, args, err := postgres.Builder.
		Insert("product_baselines").
		Columns("tenant_id", "product_id", "fields", "captured_at").
		Values(b.TenantID, b.ProductID, fields, b.CapturedAt).
		Suffix("ON CONFLICT (tenant_id, product_id) DO UPDATE SET fields = EXCLUDED.fields, captured_at = EXCLUDED.captured_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert baseline: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "baseline", b.ProductID)
	}
	return nil
}
