// Package pubsub carries product-update events over Google Cloud Pub/Sub.
// Delivery is at least once; consumers must be idempotent.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gcpubsub "cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

const ackDeadline = 30 * time.Second

// Handler processes one event. Returning nil acks the message; a permanent
// error (see Permanent) acks it as well, any other error nacks it for
// redelivery.
type Handler func(ctx context.Context, ev domain.ProductUpdateEvent) error

// Client publishes and receives product-update events.
type Client struct {
	client *gcpubsub.Client
	topic  *gcpubsub.Topic
	sub    *gcpubsub.Subscription
	log    *slog.Logger
}

// New connects to Pub/Sub. With cfg.CreateMissing the topic and subscription
// are created when absent.
func New(ctx context.Context, cfg config.PubSubConfig, log *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	client, err := gcpubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	c := &Client{
		client: client,
		topic:  client.Topic(cfg.TopicID),
		sub:    client.Subscription(cfg.SubscriptionID),
		log:    log.With("adapter", "pubsub"),
	}
	if cfg.MaxOutstanding > 0 {
		c.sub.ReceiveSettings.MaxOutstandingMessages = cfg.MaxOutstanding
	}

	if cfg.CreateMissing {
		if err := c.ensure(ctx, cfg); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) ensure(ctx context.Context, cfg config.PubSubConfig) error {
	ok, err := c.topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check topic %q: %w", cfg.TopicID, err)
	}
	if !ok {
		if c.topic, err = c.client.CreateTopic(ctx, cfg.TopicID); err != nil {
			return fmt.Errorf("create topic %q: %w", cfg.TopicID, err)
		}
	}

	ok, err = c.sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %q: %w", cfg.SubscriptionID, err)
	}
	if !ok {
		settings := c.sub.ReceiveSettings
		c.sub, err = c.client.CreateSubscription(ctx, cfg.SubscriptionID, gcpubsub.SubscriptionConfig{
			Topic:       c.topic,
			AckDeadline: ackDeadline,
		})
		if err != nil {
			return fmt.Errorf("create subscription %q: %w", cfg.SubscriptionID, err)
		}
		c.sub.ReceiveSettings = settings
	}
	return nil
}

// Close stops publishing and releases the connection.
func (c *Client) Close() error {
	c.topic.Stop()
	return c.client.Close()
}

// Publish sends ev and waits for the server-assigned message id.
func (c *Client) Publish(ctx context.Context, ev domain.ProductUpdateEvent) (string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	res := c.topic.Publish(ctx, &gcpubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"tenant_id":  ev.TenantID,
			"product_id": ev.ProductID,
		},
	})
	id, err := res.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish event: %w", err)
	}
	return id, nil
}

// Receive delivers events to h until ctx is cancelled. It returns nil on
// cancellation.
func (c *Client) Receive(ctx context.Context, h Handler) error {
	err := c.sub.Receive(ctx, func(ctx context.Context, msg *gcpubsub.Message) {
		var ev domain.ProductUpdateEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.log.WarnContext(ctx, "dropping undecodable message",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
			msg.Ack()
			return
		}

		err := h(ctx, ev)
		switch {
		case err == nil:
			msg.Ack()
		case Permanent(err):
			c.log.WarnContext(ctx, "dropping event",
				slog.String("message_id", msg.ID),
				slog.String("tenant_id", ev.TenantID),
				slog.String("product_id", ev.ProductID),
				slog.String("error", err.Error()),
			)
			msg.Ack()
		default:
			c.log.ErrorContext(ctx, "event processing failed",
				slog.String("message_id", msg.ID),
				slog.String("tenant_id", ev.TenantID),
				slog.String("product_id", ev.ProductID),
				slog.String("error", err.Error()),
			)
			msg.Nack()
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("pubsub receive: %w", err)
	}
	return nil
}

// Permanent reports whether redelivering an event that failed with err
// cannot succeed.
func Permanent(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound)
}
