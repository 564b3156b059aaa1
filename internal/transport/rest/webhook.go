package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/auth"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/productsync"
)

// ShopDomainHeader names the tenant a platform webhook belongs to.
const ShopDomainHeader = "X-Shop-Domain"

//go:generate moq -out event_publisher_mock_test.go -pkg rest . eventPublisher
//go:generate moq -out product_syncer_mock_test.go -pkg rest . productSyncer
//go:generate moq -out plan_cache_mock_test.go -pkg rest . planCache

type signatureVerifier interface {
	Verify(body []byte, signature string) bool
}

type eventPublisher interface {
	Publish(ctx context.Context, ev domain.ProductUpdateEvent) (string, error)
}

type productSyncer interface {
	HandleProductUpdate(ctx context.Context, ev domain.ProductUpdateEvent) (productsync.SyncResult, error)
}

type planCache interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// WebhookHandler accepts product-update and subscription-update webhooks
// from the platform.
type WebhookHandler struct {
	verifier  signatureVerifier
	publisher eventPublisher
	sync      productSyncer
	plans     planCache
	now       func() time.Time
	log       *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler. Events go to publisher when it
// is non-nil and are otherwise handled inline by sync. Subscription updates
// drop the tenant's cached plan from plans.
func NewWebhookHandler(verifier signatureVerifier, publisher eventPublisher, sync productSyncer, plans planCache, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		publisher: publisher,
		sync:      sync,
		plans:     plans,
		now:       time.Now,
		log:       logger.With("handler", "webhook"),
	}
}

// readVerified reads the body and checks its signature. It writes the error
// response and returns false when either fails.
func (h *WebhookHandler) readVerified(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return nil, false
	}
	if !h.verifier.Verify(body, r.Header.Get(auth.WebhookSignatureHeader)) {
		h.log.WarnContext(r.Context(), "webhook signature mismatch",
			slog.String("shop", r.Header.Get(ShopDomainHeader)))
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return nil, false
	}
	return body, true
}

func shopDomain(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.Header.Get(ShopDomainHeader)))
}

type productWebhook struct {
	ID        json.RawMessage `json:"id"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// productID accepts both numeric and string ids.
func (p productWebhook) productID() string {
	var s string
	if err := json.Unmarshal(p.ID, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(p.ID))
}

// ProductUpdate verifies and queues one product-update notification.
// POST /webhooks/products/update
func (h *WebhookHandler) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readVerified(w, r)
	if !ok {
		return
	}

	var payload productWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ev := domain.ProductUpdateEvent{
		TenantID:   shopDomain(r),
		ProductID:  payload.productID(),
		UpdatedAt:  payload.UpdatedAt,
		ReceivedAt: h.now().UTC(),
	}
	if err := ev.Validate(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if h.publisher != nil {
		if _, err := h.publisher.Publish(r.Context(), ev); err != nil {
			h.log.ErrorContext(r.Context(), "publish product update",
				slog.String("tenant_id", ev.TenantID),
				slog.String("product_id", ev.ProductID),
				slog.String("error", err.Error()))
			writeError(w, http.StatusServiceUnavailable, "try again later")
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if _, err := h.sync.HandleProductUpdate(r.Context(), ev); err != nil {
		// The platform redelivers on non-2xx; a product that no longer
		// exists will never succeed.
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SubscriptionUpdate drops the cached plan of a tenant whose subscription
// changed, so the next operation reads the new entitlements.
// POST /webhooks/subscriptions/update
func (h *WebhookHandler) SubscriptionUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.readVerified(w, r); !ok {
		return
	}
	tenantID := shopDomain(r)
	if tenantID == "" {
		handleError(h.log, w, r, domain.NewValidationError("tenantId", "required"))
		return
	}

	if err := h.plans.Invalidate(r.Context(), tenantID); err != nil {
		h.log.ErrorContext(r.Context(), "invalidate plan cache",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "try again later")
		return
	}
	h.log.InfoContext(r.Context(), "plan cache invalidated", slog.String("tenant_id", tenantID))
	w.WriteHeader(http.StatusOK)
}
