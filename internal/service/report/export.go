package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Workbook sheet names.
const (
	SheetSummary      = "Summary"
	SheetAtRisk       = "At Risk"
	SheetMostImproved = "Most Improved"
	SheetSuggestions  = "Suggestions"
)

// ExportContentType is the media type of ExportReport output.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReport renders a stored report as an xlsx workbook.
func (s *Service) ExportReport(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, error) {
	rep, err := s.GetReport(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	b, err := renderWorkbook(rep)
	if err != nil {
		return nil, fmt.Errorf("export report %s: %w", id, err)
	}
	return b, nil
}

func renderWorkbook(rep domain.CatalogReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Period start", rep.PeriodStart.Format("2006-01-02")},
		{"Period end", rep.PeriodEnd.Format("2006-01-02")},
		{"Total products", rep.TotalProducts},
		{"Ready products", rep.ReadyProducts},
		{"Readiness rate", fmt.Sprintf("%.1f%%", rep.ReadinessRate())},
		{"Average score", rep.AverageScore},
		{"Drifts detected", rep.DriftsDetected},
		{"Drifts resolved", rep.DriftsResolved},
		{"Drifts unresolved", rep.DriftsUnresolved},
	}
	if rep.HasPrevious {
		summary = append(summary, []any{"Previous average score", rep.PreviousAverageScore})
	}
	summary = append(summary, []any{})
	summary = append(summary, []any{"Issue", "Products"})
	for _, issue := range rep.TopIssues {
		summary = append(summary, []any{issue.Issue, issue.Count})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	atRisk := [][]any{{"Product", "Score", "Failing items"}}
	for _, p := range rep.ProductsAtRisk {
		atRisk = append(atRisk, []any{p.ProductID, p.Score, p.IssueCount})
	}
	if err := addSheet(f, SheetAtRisk, atRisk); err != nil {
		return nil, err
	}

	improved := [][]any{{"Product", "Previous score", "Current score", "Change"}}
	for _, p := range rep.MostImproved {
		improved = append(improved, []any{p.ProductID, p.PreviousScore, p.CurrentScore, p.Delta})
	}
	if err := addSheet(f, SheetMostImproved, improved); err != nil {
		return nil, err
	}

	suggestions := [][]any{{"Priority", "Suggestion"}}
	for _, sg := range rep.Suggestions {
		suggestions = append(suggestions, []any{sg.Priority.String(), sg.Message})
	}
	if err := addSheet(f, SheetSuggestions, suggestions); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
