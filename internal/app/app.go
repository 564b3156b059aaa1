package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catalog-compliance/internal/adapter/postgres"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/pubsub"
	"github.com/heartmarshall/catalog-compliance/internal/adapter/redisclient"
	"github.com/heartmarshall/catalog-compliance/internal/auth"
	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
	"github.com/heartmarshall/catalog-compliance/internal/transport/rest"
	"github.com/heartmarshall/catalog-compliance/migrations"
)

const rateLimitCleanup = time.Minute

// Options tune a Run.
type Options struct {
	// Migrate applies pending migrations before serving.
	Migrate bool
}

// Run is the application entry point. It loads configuration, wires the
// services, serves HTTP and, when Pub/Sub is enabled, consumes product-update
// events until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("pubsub", cfg.PubSub.Enabled),
		slog.Bool("redis", cfg.Redis.Enabled()),
	)

	if opts.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrations.FS, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	var events *pubsub.Client
	if cfg.PubSub.Enabled {
		events, err = pubsub.New(ctx, cfg.PubSub, logger)
		if err != nil {
			return err
		}
		defer events.Close()
	}

	limiter := middleware.NewRateLimiter(rateLimitCleanup)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newHandler(cfg, c, events, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})
	if events != nil {
		g.Go(func() error {
			return events.Receive(gctx, func(ctx context.Context, ev domain.ProductUpdateEvent) error {
				_, err := c.Sync.HandleProductUpdate(ctx, ev)
				return err
			})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// newHandler builds the router with the middleware chains. Webhooks are
// queued on Pub/Sub when events is non-nil and handled inline otherwise.
// They are not rate limited: the platform retries throttled deliveries.
func newHandler(cfg *config.Config, c *Container, events *pubsub.Client, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionIssuer, cfg.Auth.SessionTTL)
	verifier := auth.NewWebhookVerifier(cfg.Auth.WebhookSecret)

	var webhook *rest.WebhookHandler
	if events != nil {
		webhook = rest.NewWebhookHandler(verifier, events, c.Sync, c.Plans, logger)
	} else {
		webhook = rest.NewWebhookHandler(verifier, nil, c.Sync, c.Plans, logger)
	}

	health := rest.NewHealthHandler(c.Pool, BuildVersion())
	if c.Redis != nil {
		health.WithComponent("redis", redisclient.Pinger{Client: c.Redis})
	}

	mux := rest.NewRouter(rest.Handlers{
		Health:      health,
		Audit:       rest.NewAuditHandler(c.Audit, logger),
		Remediation: rest.NewRemediationHandler(c.Remediation, c.History, logger),
		Drift:       rest.NewDriftHandler(c.Sync, c.Drift, logger),
		Report:      rest.NewReportHandler(c.Report, logger),
		Webhook:     webhook,
	},
		middleware.Chain(
			middleware.TenantAuth(sessions),
			limiter.Limit(cfg.Server.RateLimit),
		),
		middleware.Chain(),
	)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
	)(mux)
}
