package domain

import (
	"time"

	"github.com/google/uuid"
)

// DriftRecord is an observed difference between a monitored field and the
// product's baseline. At most one unresolved record exists per
// (TenantID, ProductID, Field).
type DriftRecord struct {
	ID            uuid.UUID     `json:"id"`
	TenantID      string        `json:"tenantId"`
	ProductID     string        `json:"productId"`
	Field         string        `json:"field"`
	PreviousValue string        `json:"previousValue"`
	ObservedValue string        `json:"observedValue"`
	Severity      DriftSeverity `json:"severity"`
	DetectedAt    time.Time     `json:"detectedAt"`
	IsResolved    bool          `json:"isResolved"`
	ResolvedAt    *time.Time    `json:"resolvedAt,omitempty"`
}

// Baseline is the last known-good set of monitored field values for a product.
type Baseline struct {
	TenantID   string
	ProductID  string
	Fields     map[string]string
	CapturedAt time.Time
}

// DriftCheckResult is returned by a drift check.
type DriftCheckResult struct {
	Detected bool          `json:"detected"`
	Drifts   []DriftRecord `json:"drifts"`
	// Resolved lists records closed by this check.
	Resolved []DriftRecord `json:"resolved,omitempty"`
	// BaselineCaptured is true when no baseline existed and one was taken.
	BaselineCaptured bool `json:"baselineCaptured"`
}

// DriftCounts summarizes drift activity for a reporting window.
type DriftCounts struct {
	Detected   int
	Resolved   int
	Unresolved int
}
