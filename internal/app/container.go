package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/catalog-compliance/internal/adapter/lock"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres/auditrecord"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres/baseline"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres/driftrecord"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres/fieldversion"
	reportrepo "github.com/heartmarshall/catalog-compliance/internal/adapter/postgres/report"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/provider/billing"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/provider/catalog"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/provider/notify"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/redisclient"
	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/service/audit"
	"github.com/heartmarshall/catalog-compliance/internal/service/drift"
	"github.com/heartmarshall/catalog-compliance/internal/service/history"
	"github.com/heartmarshall/catalog-compliance/internal/service/productsync"
	"github.com/heartmarshall/catalog-compliance/internal/service/remediation"
	"github.com/heartmarshall/catalog-compliance/internal/service/report"
	"github.com/heartmarshall/catalog-compliance/internal/service/ruleset"
)

// Container holds the infrastructure and services shared by the server and
// the batch commands.
type Container struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client // nil when Redis is not configured

	AuditRecords *auditrecord.Repo
	Plans        *billing.Client

	Audit       *audit.Service
	History     *history.Service
	Drift       *drift.Service
	Remediation *remediation.Service
	Report      *report.Service
	Sync        *productsync.Service
}

// NewContainer connects to the database (and Redis when configured) and
// builds every service. Call Close when done.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	c := &Container{Pool: pool}

	var (
		locker lockAcquirer = lock.NewLocal()
		cache  redis.Cmdable
	)
	if cfg.Redis.Enabled() {
		rdb, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Redis = rdb
		locker = lock.NewRedis(rdb, cfg.Redis, logger)
		cache = rdb
	}
	plans := billing.NewClient(cfg.Billing, cache, logger)
	c.Plans = plans

	txm := postgres.NewTxManager(pool)
	c.AuditRecords = auditrecord.New(pool)
	versions := fieldversion.New(pool)
	drifts := driftrecord.New(pool)
	baselines := baseline.New(pool)
	reports := reportrepo.New(pool)

	catalogClient := catalog.NewClient(cfg.Catalog, logger)
	notifier := notify.NewClient(cfg.Notify, logger)
	rules := ruleset.Default()

	c.Audit = audit.NewService(logger, c.AuditRecords, catalogClient, rules)
	c.History = history.NewService(logger, versions, plans, locker, txm)
	c.Drift = drift.NewService(logger, baselines, drifts, notifier)
	c.Sync = productsync.NewService(logger, catalogClient, c.Audit, plans, c.Drift)
	c.Report = report.NewService(logger, c.AuditRecords, reports, drifts, notifier, txm, rules, cfg.Report)

	c.Remediation, err = remediation.NewService(
		logger, catalogClient, c.Audit, c.History, plans, c.Drift, rules,
		remediation.DefaultRegistry(cfg.Remediation.SEODescriptionMinLen, cfg.Remediation.SEODescriptionMaxLen),
		cfg.Remediation,
	)
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

type lockAcquirer interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Close releases the connections held by the container.
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	c.Pool.Close()
}
