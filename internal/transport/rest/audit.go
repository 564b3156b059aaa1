package rest

import (
	"context"
	"iter"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

const (
	defaultIncompleteLimit = 50
	maxIncompleteLimit     = 250
)

//go:generate moq -out audit_service_mock_test.go -pkg rest . auditService

type auditService interface {
	Get(ctx context.Context, tenantID, productID string) (*domain.AuditRecord, error)
	Recompute(ctx context.Context, tenantID, productID string) (domain.AuditRecord, error)
	Incomplete(ctx context.Context, tenantID string) iter.Seq2[domain.AuditRecord, error]
	NextIncomplete(ctx context.Context, tenantID, currentProductID string) (*domain.AuditRecord, error)
}

// AuditHandler serves the product audit endpoints.
type AuditHandler struct {
	audits auditService
	log    *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audits auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audits: audits, log: logger.With("handler", "audit")}
}

type auditResponse struct {
	domain.AuditRecord
	Score float64          `json:"score"`
	Band  domain.ScoreBand `json:"band,omitempty"`
}

func toAuditResponse(rec domain.AuditRecord) auditResponse {
	score := rec.Score()
	band, _ := domain.BandForScore(score)
	return auditResponse{AuditRecord: rec, Score: score, Band: band}
}

// Get returns the stored audit of a product.
// GET /api/products/{productID}/audit
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rec, err := h.audits.Get(r.Context(), tenantID, r.PathValue("productID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "product has not been audited")
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(*rec))
}

// Recompute re-reads the product from the catalog and stores a fresh audit.
// POST /api/products/{productID}/audit
func (h *AuditHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rec, err := h.audits.Recompute(r.Context(), tenantID, r.PathValue("productID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(rec))
}

// Incomplete lists incomplete products, least recently updated first.
// GET /api/audits/incomplete?limit=50
func (h *AuditHandler) Incomplete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultIncompleteLimit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit = min(max(limit, 1), maxIncompleteLimit)

	out := make([]auditResponse, 0, limit)
	for rec, err := range h.audits.Incomplete(r.Context(), tenantID) {
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		out = append(out, toAuditResponse(rec))
		if len(out) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Next returns the next incomplete product after the one being viewed.
// GET /api/audits/next?current={productID}
func (h *AuditHandler) Next(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rec, err := h.audits.NextIncomplete(r.Context(), tenantID, r.URL.Query().Get("current"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(*rec))
}
