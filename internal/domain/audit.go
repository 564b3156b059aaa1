package domain

import (
	"math"
	"time"
)

// RuleInfo is the static metadata of a checklist rule.
type RuleInfo struct {
	Key      string
	Label    string
	Fixable  bool
	Category RuleCategory
}

// AuditItemResult is the outcome of one rule for one product.
type AuditItemResult struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Status  ItemStatus `json:"status"`
	Details *string    `json:"details,omitempty"`
}

// AuditRecord is the materialized audit of a product. It is overwritten on
// every re-evaluation; one live row exists per (TenantID, ProductID).
type AuditRecord struct {
	TenantID    string            `json:"tenantId"`
	ProductID   string            `json:"productId"`
	Status      AuditStatus       `json:"status"`
	PassedCount int               `json:"passedCount"`
	FailedCount int               `json:"failedCount"`
	TotalCount  int               `json:"totalCount"`
	Items       []AuditItemResult `json:"items"`

	// SourceUpdatedAt is the platform timestamp of the snapshot the record was
	// built from. Upserts carrying an older timestamp are rejected.
	SourceUpdatedAt time.Time `json:"sourceUpdatedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Score returns passed/total as a percentage rounded to two places.
func (r AuditRecord) Score() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return math.Round(float64(r.PassedCount)/float64(r.TotalCount)*10000) / 100
}

// Item returns the result for key.
func (r AuditRecord) Item(key string) (AuditItemResult, bool) {
	for _, it := range r.Items {
		if it.Key == key {
			return it, true
		}
	}
	return AuditItemResult{}, false
}

// FailedKeys returns the keys of failed items in presentation order.
func (r AuditRecord) FailedKeys() []string {
	var keys []string
	for _, it := range r.Items {
		if it.Status == ItemStatusFailed {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Recount derives the counters and overall status from Items.
func (r *AuditRecord) Recount() {
	r.PassedCount, r.FailedCount = 0, 0
	for _, it := range r.Items {
		if it.Status.IsPassing() {
			r.PassedCount++
		} else {
			r.FailedCount++
		}
	}
	r.TotalCount = len(r.Items)
	if r.FailedCount == 0 {
		r.Status = AuditStatusReady
	} else {
		r.Status = AuditStatusIncomplete
	}
}

// IncompleteCursor is the keyset position for incomplete-product navigation.
type IncompleteCursor struct {
	UpdatedAt time.Time
	ProductID string
}
