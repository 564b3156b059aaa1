package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

//go:generate moq -out drift_service_mock_test.go -pkg rest . driftService
//go:generate moq -out drift_lister_mock_test.go -pkg rest . driftLister

type driftService interface {
	CheckDrift(ctx context.Context, tenantID, productID string) (domain.DriftCheckResult, error)
	AcceptBaseline(ctx context.Context, tenantID, productID string, fields []string) error
}

type driftLister interface {
	ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error)
}

// DriftHandler serves drift checks, baseline acceptance and open alerts.
type DriftHandler struct {
	drift driftService
	lists driftLister
	log   *slog.Logger
}

// NewDriftHandler creates a DriftHandler.
func NewDriftHandler(drift driftService, lists driftLister, logger *slog.Logger) *DriftHandler {
	return &DriftHandler{drift: drift, lists: lists, log: logger.With("handler", "drift")}
}

type acceptBaselineRequest struct {
	Fields []string `json:"fields"`
}

// Check compares the product against its baseline now.
// POST /api/products/{productID}/drift/check
func (h *DriftHandler) Check(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.drift.CheckDrift(r.Context(), tenantID, r.PathValue("productID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if res.Drifts == nil {
		res.Drifts = []domain.DriftRecord{}
	}
	writeJSON(w, http.StatusOK, res)
}

// Accept takes the product's current values as its new baseline. An empty
// field list accepts every monitored field.
// POST /api/products/{productID}/drift/accept
func (h *DriftHandler) Accept(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req acceptBaselineRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.drift.AcceptBaseline(r.Context(), tenantID, r.PathValue("productID"), req.Fields); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOpen returns unresolved drift alerts, newest first.
// GET /api/drift?limit=50
func (h *DriftHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	records, err := h.lists.ListOpen(r.Context(), tenantID, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if records == nil {
		records = []domain.DriftRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
