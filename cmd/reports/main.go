// Command reports generates the previous calendar month's catalog report for
// every tenant with audit records. Existing reports are left untouched, so
// rerunning the job is safe. It is intended to be invoked by an external
// cron job early each month.
//
// Flags:
//
//	-month        YYYY-MM to report on instead of the previous month
//	-concurrency  tenants processed in parallel
//
// Exit codes: 0 = success, 1 = error (other tenants are still processed).
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/app"
	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/report"
)

func main() {
	month := flag.String("month", "", "report month as YYYY-MM (default: previous month)")
	concurrency := flag.Int("concurrency", report.DefaultConcurrency, "tenants processed in parallel")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	period := domain.MonthPeriod(domain.MonthPeriod(time.Now()).Start.AddDate(0, -1, 0))
	if *month != "" {
		t, err := time.Parse("2006-01", *month)
		if err != nil {
			log.Fatalf("parse -month: %v", err)
		}
		period = domain.MonthPeriod(t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("init", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer c.Close()

	tenants, err := c.AuditRecords.ListTenants(ctx)
	if err != nil {
		logger.Error("list tenants", slog.String("error", err.Error()))
		c.Close()
		os.Exit(1)
	}

	summary, err := c.Report.GenerateAll(ctx, tenants, period, *concurrency)
	logger.Info("reports completed",
		slog.Time("period_start", period.Start),
		slog.Int("tenants", summary.Tenants),
		slog.Int("generated", summary.Generated),
		slog.Int("failed", summary.Failed),
	)
	if err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		c.Close()
		os.Exit(1)
	}
}
