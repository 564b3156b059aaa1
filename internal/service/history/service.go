// Package history keeps the retention-bounded log of field values that backs
// inline revert. Each stored version is the value a field held immediately
// before change N was applied.
package history

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out version_repo_mock_test.go -pkg history . versionRepo
//go:generate moq -out plan_provider_mock_test.go -pkg history . planProvider
//go:generate moq -out locker_mock_test.go -pkg history . locker
//go:generate moq -out tx_manager_mock_test.go -pkg history . txManager

type versionRepo interface {
	LatestVersion(ctx context.Context, tenantID, productID, field string) (int, error)
	ListByField(ctx context.Context, tenantID, productID, field string, limit int) ([]domain.FieldVersion, error)
	GetVersion(ctx context.Context, tenantID, productID, field string, version int) (domain.FieldVersion, error)
	ListTenants(ctx context.Context) ([]string, error)
	Create(ctx context.Context, v domain.FieldVersion) (domain.FieldVersion, error)
	PruneOlderThan(ctx context.Context, tenantID string, cutoff time.Time) (int64, error)
}

type planProvider interface {
	GetPlanPolicy(ctx context.Context, tenantID string) (domain.PlanPolicy, error)
}

type locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Service records, lists and replays field versions.
type Service struct {
	versions versionRepo
	plans    planProvider
	locks    locker
	tx       txManager
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new history service.
func NewService(
	log *slog.Logger,
	versions versionRepo,
	plans planProvider,
	locks locker,
	tx txManager,
) *Service {
	return &Service{
		versions: versions,
		plans:    plans,
		locks:    locks,
		tx:       tx,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("service", "history"),
	}
}

// lockKey serializes writes to one field of one product.
func lockKey(tenantID, productID, field string) string {
	return strings.Join([]string{"version", tenantID, productID, field}, ":")
}
