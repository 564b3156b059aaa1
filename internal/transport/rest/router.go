// Package rest exposes the engine over HTTP: tenant API routes under /api,
// platform webhooks under /webhooks and the health probes.
package rest

import (
	"net/http"

	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

// Handlers groups every handler mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Audit       *AuditHandler
	Remediation *RemediationHandler
	Drift       *DriftHandler
	Report      *ReportHandler
	Webhook     *WebhookHandler
}

// NewRouter mounts all routes. api wraps the tenant routes and hooks wraps
// the webhook intake; health probes are left bare.
func NewRouter(h Handlers, api, hooks middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.Handle("POST /webhooks/products/update", hooks(http.HandlerFunc(h.Webhook.ProductUpdate)))
	mux.Handle("POST /webhooks/subscriptions/update", hooks(http.HandlerFunc(h.Webhook.SubscriptionUpdate)))

	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /api/products/{productID}/audit", h.Audit.Get},
		{"POST /api/products/{productID}/audit", h.Audit.Recompute},
		{"GET /api/audits/incomplete", h.Audit.Incomplete},
		{"GET /api/audits/next", h.Audit.Next},

		{"POST /api/products/{productID}/fixes", h.Remediation.FixAll},
		{"POST /api/products/{productID}/fixes/{itemKey}", h.Remediation.Fix},
		{"PUT /api/products/{productID}/fields/{field}", h.Remediation.EditField},
		{"POST /api/products/{productID}/fields/{field}/revert", h.Remediation.Revert},
		{"GET /api/products/{productID}/fields/{field}/history", h.Remediation.History},

		{"POST /api/products/{productID}/drift/check", h.Drift.Check},
		{"POST /api/products/{productID}/drift/accept", h.Drift.Accept},
		{"GET /api/drift", h.Drift.ListOpen},

		{"POST /api/reports", h.Report.Generate},
		{"GET /api/reports", h.Report.History},
		{"GET /api/reports/latest", h.Report.Latest},
		{"GET /api/reports/{reportID}", h.Report.Get},
		{"GET /api/reports/{reportID}/export", h.Report.Export},
	}
	for _, rt := range routes {
		mux.Handle(rt.pattern, api(rt.handler))
	}

	return mux
}
