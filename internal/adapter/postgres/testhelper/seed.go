package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewTenantID returns a tenant id no other test uses.
func NewTenantID() string {
	return "shop-" + uniqueSuffix() + ".example.com"
}

// NewProductID returns a product id no other test uses.
func NewProductID() string {
	return "gid://shop/Product/" + uniqueSuffix()
}

// SeedAuditRecord inserts an audit record with the given counters. Items are
// synthesized so that the counters are consistent.
func SeedAuditRecord(t *testing.T, pool *pgxpool.Pool, tenantID, productID string, passed, failed int, updatedAt time.Time) domain.AuditRecord {
	t.Helper()
	ctx := context.Background()

	record := domain.AuditRecord{
		TenantID:        tenantID,
		ProductID:       productID,
		SourceUpdatedAt: updatedAt,
		UpdatedAt:       updatedAt,
	}
	for i := 0; i < passed; i++ {
		record.Items = append(record.Items, domain.AuditItemResult{Key: "pass_" + string(rune('a'+i)), Status: domain.ItemStatusPassed})
	}
	for i := 0; i < failed; i++ {
		record.Items = append(record.Items, domain.AuditItemResult{Key: "fail_" + string(rune('a'+i)), Status: domain.ItemStatusFailed})
	}
	record.Recount()

	items, err := json.Marshal(record.Items)
	if err != nil {
		t.Fatalf("testhelper: SeedAuditRecord marshal items: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO audit_records (tenant_id, product_id, status, passed_count, failed_count, total_count, items, source_updated_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.TenantID, record.ProductID, string(record.Status), record.PassedCount, record.FailedCount,
		record.TotalCount, items, record.SourceUpdatedAt, record.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAuditRecord insert: %v", err)
	}

	return record
}

// SeedFieldVersion inserts a field version with an explicit creation time.
func SeedFieldVersion(t *testing.T, pool *pgxpool.Pool, tenantID, productID, field string, version int, createdAt time.Time) domain.FieldVersion {
	t.Helper()

	v := domain.FieldVersion{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ProductID: productID,
		Field:     field,
		Value:     "value v" + string(rune('0'+version)),
		Version:   version,
		Source:    domain.VersionSourceManualEdit,
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO field_versions (id, tenant_id, product_id, field, value, version, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.TenantID, v.ProductID, v.Field, v.Value, v.Version, string(v.Source), v.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFieldVersion insert: %v", err)
	}

	return v
}
