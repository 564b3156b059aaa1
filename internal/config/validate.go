package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 characters (got %d)", len(c.Auth.SessionSecret))
	}
	if len(c.Auth.WebhookSecret) < 16 {
		return fmt.Errorf("auth.webhook_secret must be at least 16 characters (got %d)", len(c.Auth.WebhookSecret))
	}

	if err := validateURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if err := validateURL(c.Billing.BaseURL); err != nil {
		return fmt.Errorf("billing.base_url: %w", err)
	}
	if c.Notify.Enabled {
		if err := validateURL(c.Notify.BaseURL); err != nil {
			return fmt.Errorf("notify.base_url: %w", err)
		}
	}

	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog.requests_per_second must be > 0 (got %v)", c.Catalog.RequestsPerSecond)
	}
	if c.Catalog.Burst < 1 {
		return fmt.Errorf("catalog.burst must be >= 1 (got %d)", c.Catalog.Burst)
	}

	if c.PubSub.Enabled {
		if c.PubSub.ProjectID == "" {
			return fmt.Errorf("pubsub.project_id is required when pubsub is enabled")
		}
		if c.PubSub.TopicID == "" || c.PubSub.SubscriptionID == "" {
			return fmt.Errorf("pubsub.topic_id and pubsub.subscription_id are required when pubsub is enabled")
		}
	}

	if err := c.Remediation.validate(); err != nil {
		return fmt.Errorf("remediation: %w", err)
	}
	if err := c.Report.validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

func (r *RemediationConfig) validate() error {
	if r.MutationTimeout <= 0 {
		return fmt.Errorf("mutation_timeout must be > 0 (got %v)", r.MutationTimeout)
	}
	if r.SEODescriptionMinLen < 50 || r.SEODescriptionMaxLen > 160 || r.SEODescriptionMinLen > r.SEODescriptionMaxLen {
		return fmt.Errorf("seo description band must lie within 50..160 (got %d..%d)", r.SEODescriptionMinLen, r.SEODescriptionMaxLen)
	}
	return nil
}

func (r *ReportConfig) validate() error {
	if r.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", r.BatchSize)
	}
	if r.AtRiskLimit <= 0 || r.ImprovedLimit <= 0 || r.HistoryLimit <= 0 {
		return fmt.Errorf("limits must be > 0")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
