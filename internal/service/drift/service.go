// Package drift detects changes to monitored product fields made outside the
// engine by comparing them with a stored baseline. It does not check plan
// entitlement; callers gate it.
package drift

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out baseline_repo_mock_test.go -pkg drift . baselineRepo
//go:generate moq -out drift_repo_mock_test.go -pkg drift . driftRepo
//go:generate moq -out notifier_mock_test.go -pkg drift . notifier

type baselineRepo interface {
	Get(ctx context.Context, tenantID, productID string) (domain.Baseline, error)
	Upsert(ctx context.Context, b domain.Baseline) error
}

type driftRepo interface {
	ListOpenByProduct(ctx context.Context, tenantID, productID string) (map[string]domain.DriftRecord, error)
	ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error)
	Create(ctx context.Context, rec domain.DriftRecord) (domain.DriftRecord, error)
	UpdateObserved(ctx context.Context, id uuid.UUID, observed string, severity domain.DriftSeverity, detectedAt time.Time) (domain.DriftRecord, error)
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) (domain.DriftRecord, error)
	ResolveAllForProduct(ctx context.Context, tenantID, productID string, at time.Time) ([]domain.DriftRecord, error)
}

type notifier interface {
	Notify(ctx context.Context, tenantID string, kind domain.NotificationKind, payload any) bool
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service checks products for drift and maintains their baselines.
type Service struct {
	baselines baselineRepo
	drifts    driftRepo
	notify    notifier
	now       func() time.Time
	log       *slog.Logger
}

// NewService creates a new drift service.
func NewService(
	log *slog.Logger,
	baselines baselineRepo,
	drifts driftRepo,
	notify notifier,
) *Service {
	return &Service{
		baselines: baselines,
		drifts:    drifts,
		notify:    notify,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.With("service", "drift"),
	}
}
