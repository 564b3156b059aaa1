// Package billing looks up tenant plan policies from the billing service.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const planPath = "/tenants/{tenant}/plan"

// Client fetches PlanPolicy values, caching them in Redis when a cache is
// configured. Cache failures never fail a lookup.
type Client struct {
	http     *resty.Client
	cache    redis.Cmdable
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewClient creates a billing client. cache may be nil.
func NewClient(cfg config.BillingConfig, cache redis.Cmdable, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:     httpClient,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		log:      logger.With("adapter", "billing"),
	}
}

// GetPlanPolicy returns the tenant's current plan policy.
// Returns domain.ErrNotFound for unknown tenants.
func (c *Client) GetPlanPolicy(ctx context.Context, tenantID string) (domain.PlanPolicy, error) {
	if policy, ok := c.fromCache(ctx, tenantID); ok {
		return policy, nil
	}

	var policy domain.PlanPolicy
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("tenant", tenantID).
		SetResult(&policy).
		Get(planPath)
	if err != nil {
		return domain.PlanPolicy{}, fmt.Errorf("billing: plan %s: %w", tenantID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return domain.PlanPolicy{}, fmt.Errorf("billing: tenant %s: %w", tenantID, domain.ErrNotFound)
	case resp.IsError():
		return domain.PlanPolicy{}, fmt.Errorf("billing: plan %s: unexpected status %d", tenantID, resp.StatusCode())
	}

	c.toCache(ctx, tenantID, policy)
	return policy, nil
}

// Invalidate drops the cached policy, e.g. after a plan change notification.
func (c *Client) Invalidate(ctx context.Context, tenantID string) error {
	if c.cache == nil {
		return nil
	}
	if err := c.cache.Del(ctx, cacheKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("billing: invalidate %s: %w", tenantID, err)
	}
	return nil
}

func cacheKey(tenantID string) string {
	return "plan:" + tenantID
}

func (c *Client) fromCache(ctx context.Context, tenantID string) (domain.PlanPolicy, bool) {
	if c.cache == nil {
		return domain.PlanPolicy{}, false
	}

	raw, err := c.cache.Get(ctx, cacheKey(tenantID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "plan cache read failed",
				slog.String("tenant_id", tenantID),
				slog.String("error", err.Error()),
			)
		}
		return domain.PlanPolicy{}, false
	}

	var policy domain.PlanPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return domain.PlanPolicy{}, false
	}
	return policy, true
}

func (c *Client) toCache(ctx context.Context, tenantID string, policy domain.PlanPolicy) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(tenantID), raw, c.cacheTTL).Err(); err != nil {
		c.log.WarnContext(ctx, "plan cache write failed",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
	}
}
