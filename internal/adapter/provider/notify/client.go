// Package notify sends best-effort outbound notifications.
package notify

import (
	"context"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Client posts notifications to the notification service. Failures are
// logged and reported as false; they never surface as errors.
type Client struct {
	http    *resty.Client
	enabled bool
	log     *slog.Logger
}

type notification struct {
	Kind     domain.NotificationKind `json:"kind"`
	TenantID string                  `json:"tenantId"`
	Payload  any                     `json:"payload"`
}

// NewClient creates a notification client. A disabled client accepts and
// drops every notification.
func NewClient(cfg config.NotifyConfig, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:    httpClient,
		enabled: cfg.Enabled,
		log:     logger.With("adapter", "notify"),
	}
}

// Notify delivers one notification and reports whether it was accepted.
func (c *Client) Notify(ctx context.Context, tenantID string, kind domain.NotificationKind, payload any) bool {
	if !c.enabled {
		return false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(notification{Kind: kind, TenantID: tenantID, Payload: payload}).
		Post("/notifications")
	if err != nil {
		c.log.WarnContext(ctx, "notification failed",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return false
	}
	if resp.IsError() {
		c.log.WarnContext(ctx, "notification rejected",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)),
			slog.Int("status", resp.StatusCode()),
		)
		return false
	}
	return true
}
