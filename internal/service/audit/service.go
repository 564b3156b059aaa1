// Package audit keeps the stored audit of every product in step with the
// catalog. Recompute is the only entry point external callers should use.
package audit

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out record_repo_mock_test.go -pkg audit . recordRepo
//go:generate moq -out catalog_client_mock_test.go -pkg audit . catalogClient

type recordRepo interface {
	Upsert(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error)
	Get(ctx context.Context, tenantID, productID string) (domain.AuditRecord, error)
	ListIncomplete(ctx context.Context, tenantID string, after *domain.IncompleteCursor, limit int) ([]domain.AuditRecord, error)
}

type catalogClient interface {
	FetchSnapshot(ctx context.Context, tenantID, productID string) (domain.Snapshot, error)
}

type evaluator interface {
	Evaluate(snap domain.Snapshot) domain.AuditRecord
}

// DefaultPageSize is the keyset page size used when walking incomplete products.
const DefaultPageSize = 50

// Service recomputes and reads audit records.
type Service struct {
	records  recordRepo
	catalog  catalogClient
	rules    evaluator
	pageSize int
	log      *slog.Logger
}

// NewService creates a new audit service.
func NewService(
	log *slog.Logger,
	records recordRepo,
	catalog catalogClient,
	rules evaluator,
) *Service {
	return &Service{
		records:  records,
		catalog:  catalog,
		rules:    rules,
		pageSize: DefaultPageSize,
		log:      log.With("service", "audit"),
	}
}
