package domain

// AuditStatus is the overall readiness of a product.
type AuditStatus string

const (
	AuditStatusReady      AuditStatus = "ready"
	AuditStatusIncomplete AuditStatus = "incomplete"
)

func (s AuditStatus) String() string { return string(s) }

func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusReady, AuditStatusIncomplete:
		return true
	}
	return false
}

// ItemStatus is the outcome of a single rule for a product.
type ItemStatus string

const (
	ItemStatusPassed    ItemStatus = "passed"
	ItemStatusFailed    ItemStatus = "failed"
	ItemStatusAutoFixed ItemStatus = "auto_fixed"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPassed, ItemStatusFailed, ItemStatusAutoFixed:
		return true
	}
	return false
}

// IsPassing reports whether the status counts toward passedCount.
func (s ItemStatus) IsPassing() bool {
	return s == ItemStatusPassed || s == ItemStatusAutoFixed
}

// RuleCategory groups rules for presentation.
type RuleCategory string

const (
	RuleCategoryContent      RuleCategory = "content"
	RuleCategoryMedia        RuleCategory = "media"
	RuleCategorySEO          RuleCategory = "seo"
	RuleCategoryOrganization RuleCategory = "organization"
)

func (c RuleCategory) String() string { return string(c) }

// VersionSource records who produced the value that replaced a stored version.
type VersionSource string

const (
	VersionSourceManualEdit VersionSource = "manual_edit"
	VersionSourceAIGenerate VersionSource = "ai_generate"
	VersionSourceAIExpand   VersionSource = "ai_expand"
	VersionSourceAIImprove  VersionSource = "ai_improve"
	VersionSourceAIReplace  VersionSource = "ai_replace"
	VersionSourceAutoFix    VersionSource = "auto_fix"
)

func (s VersionSource) String() string { return string(s) }

func (s VersionSource) IsValid() bool {
	switch s {
	case VersionSourceManualEdit, VersionSourceAIGenerate, VersionSourceAIExpand,
		VersionSourceAIImprove, VersionSourceAIReplace, VersionSourceAutoFix:
		return true
	}
	return false
}

// IsAI reports whether the source consumes AI quota.
func (s VersionSource) IsAI() bool {
	switch s {
	case VersionSourceAIGenerate, VersionSourceAIExpand, VersionSourceAIImprove, VersionSourceAIReplace:
		return true
	}
	return false
}

// DriftSeverity ranks how disruptive an unauthorized change is.
type DriftSeverity string

const (
	DriftSeverityLow    DriftSeverity = "low"
	DriftSeverityMedium DriftSeverity = "medium"
	DriftSeverityHigh   DriftSeverity = "high"
)

func (s DriftSeverity) String() string { return string(s) }

func (s DriftSeverity) IsValid() bool {
	switch s {
	case DriftSeverityLow, DriftSeverityMedium, DriftSeverityHigh:
		return true
	}
	return false
}

// SuggestionPriority orders report suggestions; high sorts first.
type SuggestionPriority string

const (
	SuggestionPriorityHigh   SuggestionPriority = "high"
	SuggestionPriorityMedium SuggestionPriority = "medium"
	SuggestionPriorityLow    SuggestionPriority = "low"
)

func (p SuggestionPriority) String() string { return string(p) }

// Rank returns the sort rank of the priority (lower sorts first).
func (p SuggestionPriority) Rank() int {
	switch p {
	case SuggestionPriorityHigh:
		return 0
	case SuggestionPriorityMedium:
		return 1
	default:
		return 2
	}
}

// NotificationKind identifies an outbound notification.
type NotificationKind string

const (
	NotificationReportReady NotificationKind = "report_ready"
	NotificationDriftAlert  NotificationKind = "drift_alert"
)

func (k NotificationKind) String() string { return string(k) }
