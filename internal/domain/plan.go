package domain

// Plan feature names used in entitlement errors.
const (
	FeatureDriftDetection = "drift_detection"
	FeatureVersionHistory = "version_history"
	FeatureAIContent      = "ai_content"
)

// PlanPolicy is the tenant's entitlement snapshot, looked up once per
// operation from the billing collaborator and never mutated by the engine.
type PlanPolicy struct {
	Plan                  string `json:"plan"`
	RetentionDays         int    `json:"retentionDays"`
	VersionHistoryEnabled bool   `json:"versionHistoryEnabled"`
	DriftDetectionEnabled bool   `json:"driftDetectionEnabled"`
	AIQuotaRemaining      int    `json:"aiQuotaRemaining"`
}

// KeepsHistory reports whether field versions should be recorded at all.
func (p PlanPolicy) KeepsHistory() bool {
	return p.VersionHistoryEnabled && p.RetentionDays > 0
}
