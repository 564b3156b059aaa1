// Command prune-versions deletes field versions older than each tenant's
// plan retention. It is intended to be invoked by an external cron job, not
// as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error (some tenants may still have been pruned).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/app"
	"github.com/heartmarshall/catalog-compliance/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("init", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer c.Close()

	summary, err := c.History.PruneAll(ctx)
	logger.Info("prune completed",
		slog.Int("tenants", summary.Tenants),
		slog.Int64("deleted", summary.Deleted),
		slog.Int("failed", summary.Failed),
	)
	if err != nil {
		logger.Error("prune failed", slog.String("error", err.Error()))
		c.Close()
		os.Exit(1)
	}
}
