package drift

import (
	"slices"
	"strings"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// MonitoredFields are compared against the baseline, in check order.
// Routine edits to other fields never raise drift.
var MonitoredFields = []string{
	domain.FieldTitle,
	domain.FieldSEOTitle,
	domain.FieldSEODescription,
	domain.FieldImageURLs,
	domain.FieldImageAltText,
	domain.FieldTags,
}

// IsMonitored reports whether field participates in drift detection.
func IsMonitored(field string) bool {
	return slices.Contains(MonitoredFields, field)
}

// MonitoredValues returns the canonical value of every monitored field.
// Tags are trimmed, lowercased and sorted; images follow position order so a
// reordering by the platform with the same content is not reported.
func MonitoredValues(snap domain.Snapshot) map[string]string {
	images := snap.SortedImages()
	urls := make([]string, len(images))
	alts := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
		alts[i] = strings.TrimSpace(img.AltText)
	}

	tags := make([]string, 0, len(snap.Tags))
	for _, t := range snap.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)

	return map[string]string{
		domain.FieldTitle:          strings.TrimSpace(snap.Title),
		domain.FieldSEOTitle:       strings.TrimSpace(snap.SEOTitle),
		domain.FieldSEODescription: strings.TrimSpace(snap.SEODescription),
		domain.FieldImageURLs:      strings.Join(urls, "\n"),
		domain.FieldImageAltText:   strings.Join(alts, "\n"),
		domain.FieldTags:           strings.Join(tags, ", "),
	}
}

// Severity classifies a change from baseline to observed.
func Severity(field, baseline, observed string) domain.DriftSeverity {
	switch {
	case observed == "" && baseline != "":
		return domain.DriftSeverityHigh
	case field == domain.FieldTitle:
		return domain.DriftSeverityHigh
	case field == domain.FieldTags:
		return domain.DriftSeverityLow
	default:
		return domain.DriftSeverityMedium
	}
}
