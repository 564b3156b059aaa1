package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// DefaultConcurrency is the number of tenants GenerateAll works on at once.
const DefaultConcurrency = 4

// BatchSummary is the outcome of GenerateAll.
type BatchSummary struct {
	Tenants   int
	Generated int
	Failed    int
}

// GenerateAll generates the period's report for every tenant. A failing
// tenant does not stop the others; all failures are returned joined.
func (s *Service) GenerateAll(ctx context.Context, tenantIDs []string, period domain.Period, concurrency int) (BatchSummary, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		summary = BatchSummary{Tenants: len(tenantIDs)}
		errs    []error
	)

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := s.GenerateReport(ctx, tenantID, period)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
				s.log.ErrorContext(ctx, "report generation failed",
					slog.String("tenant_id", tenantID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			summary.Generated++
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return summary, errors.Join(errs...)
}
