// Package remediation applies automated fixes for failing checklist items and
// replays single-field edits, keeping history, audit and drift baseline in
// step with every change it makes to the catalog.
package remediation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out version_store_mock_test.go -pkg remediation . versionStore
//go:generate moq -out plan_provider_mock_test.go -pkg remediation . planProvider
//go:generate moq -out baseline_keeper_mock_test.go -pkg remediation . baselineKeeper

type catalogClient interface {
	FetchSnapshot(ctx context.Context, tenantID, productID string) (domain.Snapshot, error)
	ApplyMutation(ctx context.Context, tenantID, productID string, patch domain.ProductPatch) (domain.MutationResult, error)
}

type auditor interface {
	Apply(ctx context.Context, tenantID, productID string, snap domain.Snapshot, autoFixed ...string) (domain.AuditRecord, error)
}

type versionStore interface {
	RecordVersion(ctx context.Context, policy domain.PlanPolicy, w domain.VersionWrite) (*domain.FieldVersion, error)
	Revert(ctx context.Context, tenantID, productID, field string, version int) (string, error)
}

type planProvider interface {
	GetPlanPolicy(ctx context.Context, tenantID string) (domain.PlanPolicy, error)
}

type baselineKeeper interface {
	AcceptBaseline(ctx context.Context, tenantID, productID string, snap domain.Snapshot, fields ...string) error
}

type ruleChecker interface {
	Lookup(key string) (domain.RuleInfo, bool)
	Rules() []domain.RuleInfo
	Passes(key string, snap domain.Snapshot) (passed, ok bool)
	Evaluate(snap domain.Snapshot) domain.AuditRecord
}

// DefaultMutationTimeout bounds one fix when no timeout is configured.
const DefaultMutationTimeout = 15 * time.Second

var tracer = otel.Tracer("github.com/heartmarshall/catalog-compliance/internal/service/remediation")

// Service dispatches fixes by rule key.
type Service struct {
	catalog  catalogClient
	audit    auditor
	versions versionStore
	plans    planProvider
	drift    baselineKeeper
	rules    ruleChecker
	registry Registry
	timeout  time.Duration
	log      *slog.Logger
}

// NewService creates a new remediation service. It fails when registry and
// rules disagree about which items are fixable.
func NewService(
	log *slog.Logger,
	catalog catalogClient,
	audit auditor,
	versions versionStore,
	plans planProvider,
	drift baselineKeeper,
	rules ruleChecker,
	registry Registry,
	cfg config.RemediationConfig,
) (*Service, error) {
	if err := registry.Validate(rules); err != nil {
		return nil, fmt.Errorf("remediation registry: %w", err)
	}
	timeout := cfg.MutationTimeout
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	return &Service{
		catalog:  catalog,
		audit:    audit,
		versions: versions,
		plans:    plans,
		drift:    drift,
		rules:    rules,
		registry: registry,
		timeout:  timeout,
		log:      log.With("service", "remediation"),
	}, nil
}

// settleContext bounds the work that follows an accepted mutation: refetch,
// audit and baseline refresh. It ignores caller cancellation so a change the
// platform applied is never left unaudited.
func (s *Service) settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}
