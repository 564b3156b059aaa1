package report

import (
	"fmt"
	"slices"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Suggestion thresholds.
const (
	readinessHigh    = 50.0
	readinessMedium  = 80.0
	declineThreshold = 1.0
	driftHigh        = 5
)

// MsgAllGood is emitted when no heuristic triggers.
const MsgAllGood = "Your catalog is in good shape. Keep monitoring new products as they are added."

// suggest derives recommendations from the aggregate fields of rep. Each
// heuristic looks at one metric. The result is stably sorted by priority.
func suggest(rep domain.CatalogReport, rules ruleCatalog) []domain.Suggestion {
	var out []domain.Suggestion
	add := func(p domain.SuggestionPriority, format string, args ...any) {
		out = append(out, domain.Suggestion{Priority: p, Message: fmt.Sprintf(format, args...)})
	}

	if rep.TotalProducts > 0 {
		rate := rep.ReadinessRate()
		switch {
		case rate < readinessHigh:
			add(domain.SuggestionPriorityHigh,
				"Only %.0f%% of products are ready. Start with the products at risk.", rate)
		case rate < readinessMedium:
			add(domain.SuggestionPriorityMedium,
				"%.0f%% of products are ready. Fixing the remaining %d would complete the catalog.",
				rate, rep.TotalProducts-rep.ReadyProducts)
		}
	}

	if rep.HasPrevious {
		diff := rep.AverageScore - rep.PreviousAverageScore
		switch {
		case diff <= -declineThreshold:
			add(domain.SuggestionPriorityHigh,
				"Average score is declining: down %.1f points since the last report. Review recent product changes.", -diff)
		case diff > 0:
			add(domain.SuggestionPriorityLow,
				"Average score improved by %.1f points since the last report.", diff)
		}
	}

	switch n := rep.DriftsUnresolved; {
	case n >= driftHigh:
		add(domain.SuggestionPriorityHigh,
			"%d drift alerts are unresolved. Review them or accept the new values as baseline.", n)
	case n > 0:
		add(domain.SuggestionPriorityMedium,
			"%d drift alert(s) are unresolved.", n)
	}

	for _, issue := range rep.TopIssues {
		if issue.Issue == string(domain.ScoreBandCritical) && issue.Count > 0 {
			add(domain.SuggestionPriorityHigh,
				"%d product(s) score below 25%%. They are missing most required content.", issue.Count)
		}
	}

	for _, rule := range rep.FailingRules {
		info, ok := rules.Lookup(rule.Issue)
		if !ok || !info.Fixable {
			continue
		}
		add(domain.SuggestionPriorityMedium,
			"%d product(s) fail %q. This can be fixed automatically with Fix all.", rule.Count, info.Label)
		break
	}

	if len(out) == 0 {
		add(domain.SuggestionPriorityLow, MsgAllGood)
	}

	slices.SortStableFunc(out, func(a, b domain.Suggestion) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return out
}
