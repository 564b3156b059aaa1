// Package productsync reacts to product changes from the platform and
// fronts the plan-gated drift operations.
package productsync

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out catalog_client_mock_test.go -pkg productsync . catalogClient
//go:generate moq -out auditor_mock_test.go -pkg productsync . auditor
//go:generate moq -out plan_provider_mock_test.go -pkg productsync . planProvider
//go:generate moq -out drift_checker_mock_test.go -pkg productsync . driftChecker

type catalogClient interface {
	FetchSnapshot(ctx context.Context, tenantID, productID string) (domain.Snapshot, error)
}

type auditor interface {
	Apply(ctx context.Context, tenantID, productID string, snap domain.Snapshot, autoFixed ...string) (domain.AuditRecord, error)
}

type planProvider interface {
	GetPlanPolicy(ctx context.Context, tenantID string) (domain.PlanPolicy, error)
}

type driftChecker interface {
	CheckForDrift(ctx context.Context, tenantID, productID string, snap domain.Snapshot) (domain.DriftCheckResult, error)
	AcceptBaseline(ctx context.Context, tenantID, productID string, snap domain.Snapshot, fields ...string) error
}

// Service coordinates audit recomputation and drift checks for a product.
type Service struct {
	catalog catalogClient
	audit   auditor
	plans   planProvider
	drift   driftChecker
	log     *slog.Logger
}

// NewService creates a new product sync service.
func NewService(
	log *slog.Logger,
	catalog catalogClient,
	audit auditor,
	plans planProvider,
	drift driftChecker,
) *Service {
	return &Service{
		catalog: catalog,
		audit:   audit,
		plans:   plans,
		drift:   drift,
		log:     log.With("service", "productsync"),
	}
}

// SyncResult is the outcome of handling one product update.
type SyncResult struct {
	Audit domain.AuditRecord
	// Drift is nil when the tenant's plan has no drift detection.
	Drift *domain.DriftCheckResult
}
