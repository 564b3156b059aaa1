// Package report aggregates audit records into immutable per-period catalog
// health reports.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

//go:generate moq -out drift_counter_mock_test.go -pkg report . driftCounter
//go:generate moq -out notifier_mock_test.go -pkg report . notifier

type auditSource interface {
	ListPage(ctx context.Context, tenantID string, afterProductID string, limit int) ([]domain.AuditRecord, error)
}

type reportRepo interface {
	GetByPeriod(ctx context.Context, tenantID string, start, end time.Time) (domain.CatalogReport, error)
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error)
	GetLatest(ctx context.Context, tenantID string) (domain.CatalogReport, error)
	GetLatestBefore(ctx context.Context, tenantID string, before time.Time) (domain.CatalogReport, error)
	List(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error)
	GetScores(ctx context.Context, reportID uuid.UUID) (map[string]float64, error)
	Create(ctx context.Context, rep domain.CatalogReport) (domain.CatalogReport, error)
	InsertScores(ctx context.Context, reportID uuid.UUID, scores []domain.ProductScore) error
}

type driftCounter interface {
	CountForPeriod(ctx context.Context, tenantID string, start, end time.Time) (domain.DriftCounts, error)
}

type notifier interface {
	Notify(ctx context.Context, tenantID string, kind domain.NotificationKind, payload any) bool
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ruleCatalog interface {
	Lookup(key string) (domain.RuleInfo, bool)
}

// Service generates and serves catalog reports.
type Service struct {
	audits  auditSource
	reports reportRepo
	drifts  driftCounter
	notify  notifier
	tx      txManager
	rules   ruleCatalog
	cfg     config.ReportConfig
	now     func() time.Time
	newID   func() uuid.UUID
	log     *slog.Logger
}

// NewService creates a new report service. Zero limits in cfg fall back to
// the configuration defaults.
func NewService(
	log *slog.Logger,
	audits auditSource,
	reports reportRepo,
	drifts driftCounter,
	notify notifier,
	tx txManager,
	rules ruleCatalog,
	cfg config.ReportConfig,
) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.AtRiskLimit <= 0 {
		cfg.AtRiskLimit = 10
	}
	if cfg.ImprovedLimit <= 0 {
		cfg.ImprovedLimit = 10
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 12
	}
	return &Service{
		audits:  audits,
		reports: reports,
		drifts:  drifts,
		notify:  notify,
		tx:      tx,
		rules:   rules,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
		log:     log.With("service", "report"),
	}
}
