package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/report"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

//go:generate moq -out report_service_mock_test.go -pkg rest . reportService

type reportService interface {
	GenerateReport(ctx context.Context, tenantID string, period domain.Period) (domain.CatalogReport, error)
	GetLatestReport(ctx context.Context, tenantID string) (domain.CatalogReport, error)
	GetReport(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error)
	GetReportHistory(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error)
	ExportReport(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, error)
}

// ReportHandler serves catalog reports.
type ReportHandler struct {
	reports reportService
	now     func() time.Time
	log     *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports reportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now, log: logger.With("handler", "report")}
}

type generateReportRequest struct {
	PeriodStart *time.Time `json:"periodStart"`
	PeriodEnd   *time.Time `json:"periodEnd"`
}

// Generate builds the report for a period. Without a period the previous
// calendar month is used. An existing report for the period is returned as is.
// POST /api/reports
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req generateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	period := domain.MonthPeriod(domain.MonthPeriod(h.now()).Start.AddDate(0, -1, 0))
	if req.PeriodStart != nil || req.PeriodEnd != nil {
		period = domain.Period{}
		if req.PeriodStart != nil {
			period.Start = *req.PeriodStart
		}
		if req.PeriodEnd != nil {
			period.End = *req.PeriodEnd
		}
	}

	rep, err := h.reports.GenerateReport(r.Context(), tenantID, period)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Latest returns the most recent report.
// GET /api/reports/latest
func (h *ReportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rep, err := h.reports.GetLatestReport(r.Context(), tenantID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// History lists reports, newest period first.
// GET /api/reports?limit=12
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
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

	reports, err := h.reports.GetReportHistory(r.Context(), tenantID, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if reports == nil {
		reports = []domain.CatalogReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// Get returns one report.
// GET /api/reports/{reportID}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.reportRef(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.GetReport(r.Context(), tenantID, id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Export streams a report as an XLSX workbook.
// GET /api/reports/{reportID}/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.reportRef(w, r)
	if !ok {
		return
	}

	data, err := h.reports.ExportReport(r.Context(), tenantID, id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalog-report-%s.xlsx"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (h *ReportHandler) reportRef(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	tenantID, err := middleware.RequireTenant(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("reportID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return "", uuid.Nil, false
	}
	return tenantID, id, true
}
