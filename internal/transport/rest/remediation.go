package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/remediation"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

//go:generate moq -out remediation_service_mock_test.go -pkg rest . remediationService
//go:generate moq -out history_service_mock_test.go -pkg rest . historyService

type remediationService interface {
	ApplyFix(ctx context.Context, tenantID, productID, itemKey string) (remediation.FixResult, error)
	ApplyAllFixes(ctx context.Context, tenantID, productID string) (remediation.BatchResult, error)
	ApplyFieldValue(ctx context.Context, tenantID, productID string, edit remediation.FieldEdit) (remediation.EditResult, error)
	RevertField(ctx context.Context, tenantID, productID, field string, version int) (remediation.EditResult, error)
}

type historyService interface {
	GetHistory(ctx context.Context, tenantID, productID, field string, limit int) ([]domain.FieldVersion, error)
}

// RemediationHandler serves fixes, field edits and field history.
type RemediationHandler struct {
	fixes   remediationService
	history historyService
	log     *slog.Logger
}

// NewRemediationHandler creates a RemediationHandler.
func NewRemediationHandler(fixes remediationService, history historyService, logger *slog.Logger) *RemediationHandler {
	return &RemediationHandler{fixes: fixes, history: history, log: logger.With("handler", "remediation")}
}

type editFieldRequest struct {
	Value   string  `json:"value"`
	Source  string  `json:"source"`
	AIModel *string `json:"aiModel"`
}

type revertRequest struct {
	Version int `json:"version"`
}

// Fix applies the automatic remediation for one failing checklist item.
// A fix that could not be applied is still a 200 with success=false.
// POST /api/products/{productID}/fixes/{itemKey}
func (h *RemediationHandler) Fix(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.fixes.ApplyFix(r.Context(), tenantID, r.PathValue("productID"), r.PathValue("itemKey"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FixAll applies every available automatic fix to a product.
// POST /api/products/{productID}/fixes
func (h *RemediationHandler) FixAll(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.fixes.ApplyAllFixes(r.Context(), tenantID, r.PathValue("productID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// EditField writes a new value to one editable field.
// PUT /api/products/{productID}/fields/{field}
func (h *RemediationHandler) EditField(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req editFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	source := domain.VersionSource(req.Source)
	if req.Source == "" {
		source = domain.VersionSourceManualEdit
	}

	res, err := h.fixes.ApplyFieldValue(r.Context(), tenantID, r.PathValue("productID"), remediation.FieldEdit{
		Field:   r.PathValue("field"),
		Value:   req.Value,
		Source:  source,
		AIModel: req.AIModel,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Revert restores a field to a stored version.
// POST /api/products/{productID}/fields/{field}/revert
func (h *RemediationHandler) Revert(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req revertRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.fixes.RevertField(r.Context(), tenantID, r.PathValue("productID"), r.PathValue("field"), req.Version)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// History lists stored versions of a field, newest first.
// GET /api/products/{productID}/fields/{field}/history?limit=10
func (h *RemediationHandler) History(w http.ResponseWriter, r *http.Request) {
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

	versions, err := h.history.GetHistory(r.Context(), tenantID, r.PathValue("productID"), r.PathValue("field"), limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if versions == nil {
		versions = []domain.FieldVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}
