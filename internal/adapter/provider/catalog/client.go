// Package catalog is the HTTP client for the commerce platform's product API.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const (
	productPath  = "/tenants/{tenant}/products/{product}"
	mutationPath = "/tenants/{tenant}/products/{product}/mutations"
)

// Client fetches and mutates catalog items. All calls share one rate limiter
// so bulk remediation does not exceed the platform's API rate limit.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewClient creates a catalog client from CatalogConfig.
func NewClient(cfg config.CatalogConfig, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:     logger.With("adapter", "catalog"),
	}
}

// FetchSnapshot reads the current state of a product.
// Returns domain.ErrNotFound if the platform does not know the product.
func (c *Client) FetchSnapshot(ctx context.Context, tenantID, productID string) (domain.Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("catalog: rate limit: %w", err)
	}

	var snap domain.Snapshot
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"tenant": tenantID, "product": productID}).
		SetResult(&snap).
		Get(productPath)
	if err != nil {
		c.log.ErrorContext(ctx, "fetch snapshot failed",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return domain.Snapshot{}, fmt.Errorf("catalog: fetch %s: %w", productID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return domain.Snapshot{}, fmt.Errorf("catalog: product %s: %w", productID, domain.ErrNotFound)
	case resp.IsError():
		return domain.Snapshot{}, fmt.Errorf("catalog: fetch %s: unexpected status %d", productID, resp.StatusCode())
	}

	if snap.ProductID == "" {
		snap.ProductID = productID
	}
	return snap, nil
}

// ApplyMutation writes a patch. Field-level rejections come back in the
// result; transport failures and non-2xx statuses are returned as errors.
func (c *Client) ApplyMutation(ctx context.Context, tenantID, productID string, patch domain.ProductPatch) (domain.MutationResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.MutationResult{}, fmt.Errorf("catalog: rate limit: %w", err)
	}

	var result domain.MutationResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"tenant": tenantID, "product": productID}).
		SetBody(patch).
		SetResult(&result).
		SetError(&result).
		Post(mutationPath)
	if err != nil {
		return domain.MutationResult{}, fmt.Errorf("catalog: mutate %s: %w", productID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return domain.MutationResult{}, fmt.Errorf("catalog: product %s: %w", productID, domain.ErrNotFound)
	case resp.StatusCode() == http.StatusUnprocessableEntity:
		// Field errors are reported in the body.
	case resp.IsError():
		return domain.MutationResult{}, fmt.Errorf("catalog: mutate %s: unexpected status %d", productID, resp.StatusCode())
	}

	c.log.DebugContext(ctx, "mutation applied",
		slog.String("tenant_id", tenantID),
		slog.String("product_id", productID),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}
