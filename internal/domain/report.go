package domain

import (
	"time"

	"github.com/google/uuid"
)

// Period is a half-open reporting window [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks that the window is well formed.
func (p Period) Validate() error {
	var errs []FieldError
	if p.Start.IsZero() {
		errs = append(errs, FieldError{Field: "period_start", Message: "required"})
	}
	if p.End.IsZero() {
		errs = append(errs, FieldError{Field: "period_end", Message: "required"})
	}
	if len(errs) == 0 && !p.End.After(p.Start) {
		errs = append(errs, FieldError{Field: "period_end", Message: "must be after period_start"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// ScoreBand buckets a product score.
type ScoreBand string

const (
	ScoreBandCritical ScoreBand = "Critical"
	ScoreBandPoor     ScoreBand = "Poor"
	ScoreBandFair     ScoreBand = "Fair"
	ScoreBandGood     ScoreBand = "Good"
)

// ScoreBands lists bands from most to least severe.
var ScoreBands = []ScoreBand{ScoreBandCritical, ScoreBandPoor, ScoreBandFair, ScoreBandGood}

// BandForScore returns the band for an incomplete product's score.
// Ready products (100) have no band.
func BandForScore(score float64) (ScoreBand, bool) {
	switch {
	case score >= 100:
		return "", false
	case score < 25:
		return ScoreBandCritical, true
	case score < 50:
		return ScoreBandPoor, true
	case score < 75:
		return ScoreBandFair, true
	default:
		return ScoreBandGood, true
	}
}

// IssueCount is a bucket of products sharing an issue.
type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// ProductScore is a product's score at report time.
type ProductScore struct {
	ProductID  string  `json:"productId"`
	Score      float64 `json:"score"`
	IssueCount int     `json:"issueCount"`
}

// ImprovedProduct is a product whose score went up since the previous report.
type ImprovedProduct struct {
	ProductID     string  `json:"productId"`
	PreviousScore float64 `json:"previousScore"`
	CurrentScore  float64 `json:"currentScore"`
	Delta         float64 `json:"delta"`
}

// Suggestion is an actionable, rule-derived recommendation.
type Suggestion struct {
	Priority SuggestionPriority `json:"priority"`
	Message  string             `json:"message"`
}

// CatalogReport is an immutable health summary for one tenant and period.
type CatalogReport struct {
	ID                   uuid.UUID         `json:"id"`
	TenantID             string            `json:"tenantId"`
	PeriodStart          time.Time         `json:"periodStart"`
	PeriodEnd            time.Time         `json:"periodEnd"`
	TotalProducts        int               `json:"totalProducts"`
	ReadyProducts        int               `json:"readyProducts"`
	AverageScore         float64           `json:"averageScore"`
	PreviousAverageScore float64           `json:"previousAverageScore"`
	HasPrevious          bool              `json:"hasPrevious"`
	TopIssues            []IssueCount      `json:"topIssues"`
	FailingRules         []IssueCount      `json:"failingRules"`
	ProductsAtRisk       []ProductScore    `json:"productsAtRisk"`
	MostImproved         []ImprovedProduct `json:"mostImproved"`
	DriftsDetected       int               `json:"driftsDetected"`
	DriftsResolved       int               `json:"driftsResolved"`
	DriftsUnresolved     int               `json:"driftsUnresolved"`
	Suggestions          []Suggestion      `json:"suggestions"`
	GeneratedAt          time.Time         `json:"generatedAt"`
}

// ReadinessRate returns ready/total as a percentage.
func (r CatalogReport) ReadinessRate() float64 {
	if r.TotalProducts == 0 {
		return 0
	}
	return float64(r.ReadyProducts) / float64(r.TotalProducts) * 100
}

// MonthPeriod returns the calendar month (UTC) containing t.
func MonthPeriod(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}
